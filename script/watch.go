package script

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long a directory must stay quiet before it is reloaded.
// Editors usually save with several events in a row.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a definition directory whenever one of its files changes.
// Only the newest library is kept: a reload that nobody has received yet is
// replaced by the next one.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	reloads chan *Library
	errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching dir. The caller should Close the watcher when done.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &Watcher{
		dir:     dir,
		watcher: fw,
		reloads: make(chan *Library, 1),
		errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Reloads delivers a freshly loaded library after each change. It is closed
// when the watcher stops.
func (w *Watcher) Reloads() <-chan *Library { return w.reloads }

// Errors delivers load and watch errors. Errors are dropped while an earlier
// one is still pending.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Poll returns the pending reload, if any, without blocking. It is meant to
// be called from the game loop.
func (w *Watcher) Poll() (*Library, bool) {
	select {
	case lib, ok := <-w.reloads:
		return lib, ok
	default:
		return nil, false
	}
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.reloads)
		close(w.errors)
		close(w.done)
	}()

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			timer.Reset(reloadDelay)
		case <-timer.C:
			lib, err := LoadDir(w.dir)
			if err != nil {
				w.report(err)
				continue
			}
			select {
			case <-w.reloads:
			default:
			}
			w.reloads <- lib
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
