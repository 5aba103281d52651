package workspace

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher follows a workspace while the capture tool writes into it and
// records the image files that appear, in order of creation.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     zerolog.Logger
	done    chan struct{}

	mu   sync.Mutex
	seen []string
}

// Watch starts watching dir, which must exist. Image files created in dir
// are logged at debug level on log as they appear.
//
// Callers must call Close to clean up.
func Watch(dir string, log zerolog.Logger) (w *Watcher, rerr error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new file change watcher: %w", err)
	}

	// Ensure cleanup in case of failure.
	defer func() {
		if rerr != nil {
			fw.Close()
		}
	}()

	if err := fw.Add(dir); err != nil {
		return nil, fmt.Errorf("registering file change watcher for %s: %w", dir, err)
	}

	w = &Watcher{
		watcher: fw,
		log:     log,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) || !IsImage(ev.Name) {
				continue
			}
			name := filepath.Base(ev.Name)
			w.mu.Lock()
			w.seen = append(w.seen, name)
			w.mu.Unlock()
			w.log.Debug().Str("file", name).Msg("image file created")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watching workspace")
		}
	}
}

// Seen returns the base names of the image files created so far.
func (w *Watcher) Seen() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.seen...)
}

// Close stops watching and returns the image files seen.
func (w *Watcher) Close() []string {
	w.watcher.Close()
	<-w.done
	return w.Seen()
}
