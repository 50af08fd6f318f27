// Package segwatcher contains a watcher of media segment files.
package segwatcher

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bluenviron/mp4ttml/internal/logger"
)

const defaultSettle = 100 * time.Millisecond

// SegWatcher watches a directory and reports segment files
// once they have not been written for a while.
type SegWatcher struct {
	Dir        string
	Extensions []string
	Settle     time.Duration
	Parent     logger.Writer

	inner *fsnotify.Watcher

	// out
	segments chan string
	done     chan struct{}
}

// Initialize initializes SegWatcher.
func (w *SegWatcher) Initialize() error {
	if w.Settle == 0 {
		w.Settle = defaultSettle
	}

	var err error
	w.inner, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	err = w.inner.Add(w.Dir)
	if err != nil {
		w.inner.Close() //nolint:errcheck
		return err
	}

	w.segments = make(chan string)
	w.done = make(chan struct{})

	go w.run()

	return nil
}

// Close closes a SegWatcher.
func (w *SegWatcher) Close() {
	go func() {
		for range w.segments {
		}
	}()
	w.inner.Close() //nolint:errcheck
	<-w.done
}

// Log implements logger.Writer.
func (w *SegWatcher) Log(level logger.Level, format string, args ...any) {
	if w.Parent != nil {
		w.Parent.Log(level, "[watcher] "+format, args...)
	}
}

// HasExtension checks whether the extension of fpath is among exts.
func HasExtension(fpath string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(fpath))
	return slices.Contains(exts, ext)
}

func (w *SegWatcher) run() {
	defer close(w.done)
	defer close(w.segments)

	ticker := time.NewTicker(w.Settle / 2)
	defer ticker.Stop()

	// last write of files that have not been reported yet
	pending := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.inner.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && HasExtension(event.Name, w.Extensions) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}
			w.Log(logger.Error, "%v", err)
			return

		case now := <-ticker.C:
			var ready []string
			for name, t := range pending {
				if now.Sub(t) >= w.Settle {
					ready = append(ready, name)
				}
			}
			slices.Sort(ready)

			for _, name := range ready {
				delete(pending, name)
				w.segments <- name
			}
		}
	}
}

// Watch returns a channel that receives paths of complete segments.
// The channel is closed when the watcher stops.
func (w *SegWatcher) Watch() chan string {
	return w.segments
}
