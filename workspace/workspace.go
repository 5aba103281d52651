// Package workspace prepares the directory that receives captured images.
//
// Whatever is left in the directory after a run is handed on for delivery,
// so stale images from earlier runs are removed before capturing.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when the workspace path names something other
// than a directory.
var ErrNotDirectory = errors.New("workspace path is not a directory")

// ImagePrefix is the file name prefix of captured images.
const ImagePrefix = "image"

// imageExts are the extensions removed by Prepare.
var imageExts = []string{".jpg", ".jpeg", ".png"}

// IsStale reports whether Prepare removes a file named name: its name starts
// with ImagePrefix, or it has an image extension. Either is enough, so
// "image_notes.txt" is removed too.
func IsStale(name string) bool {
	if strings.HasPrefix(name, ImagePrefix) {
		return true
	}
	return IsImage(name)
}

// IsImage reports whether name has an image file extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Prepare readies dir for a capture run. A missing dir is created with its
// parents. In an existing dir, every stale file (see IsStale) is removed and
// everything else, sub-directories included, is left alone. If dir exists
// but is not a directory, ErrNotDirectory is returned and nothing is touched.
func Prepare(dir string) error {
	fi, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking workspace: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading workspace: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !IsStale(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing stale file: %w", err)
		}
	}
	return nil
}
