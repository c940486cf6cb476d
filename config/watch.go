package config

import (
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/vulcan/core"
)

// Watcher reloads a device-limits profile whenever the file is rewritten,
// so that tooling can retune validation without restarting.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	onReload func(*DeviceLimits, error)

	mutex    sync.Mutex
	done     chan struct{}
	isClosed bool
}

// WatchLimits watches the profile at path and invokes onReload with the
// freshly parsed limits (or the parse error) after every write.
func WatchLimits(path string, onReload func(*DeviceLimits, error)) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		onReload: onReload,
		done:     make(chan struct{}),
	}

	if err := fsWatch.Add(path); err != nil {
		fsWatch.Close()
		return nil, err
	}

	go w.start()

	return w, nil
}

func (w *Watcher) start() {
	for {
		select {
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			core.LogDebug("limits profile %s changed, reloading", event.Name)
			w.onReload(LoadLimits(event.Name))
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("limits watcher: %s", err.Error())
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return errors.New("limits watcher already closed")
	}
	w.isClosed = true
	close(w.done)
	return w.fsnotify.Close()
}
