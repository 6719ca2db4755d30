package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher triggers a callback when a configuration file changes. It is
// a best-effort convenience: the registry knows nothing about it, and
// any other trigger mechanism can drive reloads instead.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file atomically (rename over it) still
// produce events. Bursts of events are debounced.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	onChange func()
	onError  func(error)
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

const watchDebounce = 100 * time.Millisecond

// Watch starts watching path. onChange runs after each settled change;
// onError receives watcher failures. Both may be nil.
func Watch(path string, onChange func(), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		path:     abs,
		onChange: onChange,
		onError:  onError,
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
			}
			debounce.Reset(watchDebounce)
			pending = true

		case <-debounce.C:
			pending = false
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
		w.wg.Wait()
	})
	return err
}
