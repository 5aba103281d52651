// Package snapshot captures still images from the cameras attached to a host
// and leaves them in a workspace directory for delivery.
//
// Sub-packages implement the pieces: device probes and lists video devices,
// device/native owns the dedicated camera module, workspace prepares the
// output directory and capture sequences one run.
package snapshot

import (
	"os"
	"path/filepath"
)

// DefaultLogName is the file name of the capture log when the caller did not
// ask for one.
const DefaultLogName = "snapshot.log"

// DefaultLogPath returns the capture log path used when no path was given.
// The log lives in /dev/shm if it exists, otherwise in the OS default
// temporary directory.
func DefaultLogPath() string {
	// Check /dev/shm is a directory first. Don't want to create a file in /dev
	// if someone runs this as root on a system without shm.
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return filepath.Join("/dev/shm", DefaultLogName)
	}
	return filepath.Join(os.TempDir(), DefaultLogName)
}
