package loader

import (
	"context"
	"log"

	"github.com/fsnotify/fsnotify"
)

type Op int

const (
	Created Op = iota
	Modified
)

func (o Op) String() string {
	if o == Created {
		return "created"
	}
	return "modified"
}

// Event reports a change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher reports created and modified files with supported extensions.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
}

func NewWatcher(extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{watcher: w, extensions: extensions}, nil
}

// Watch starts monitoring dir. The channel is closed when ctx is done or the
// watcher is closed.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}
	events := make(chan Event, 100)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !Supported(ev.Name, w.extensions) {
					continue
				}
				var op Op
				switch {
				case ev.Has(fsnotify.Create):
					op = Created
				case ev.Has(fsnotify.Write):
					op = Modified
				default:
					continue
				}
				select {
				case events <- Event{Path: ev.Name, Op: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] watcher: %v", err)
			}
		}
	}()
	return events, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
