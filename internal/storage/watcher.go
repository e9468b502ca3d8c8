package storage

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event is an external change to a stored key. NewValue is empty when the
// key was removed.
type Event struct {
	Key      string
	NewValue string
}

// Watcher delivers external changes to stored keys, the way another
// browser tab observes localStorage. Changes written by the owning
// process are suppressed; only mutations from other processes sharing the
// data directory fan out to subscribers.
type Watcher struct {
	mu     sync.Mutex
	fs     *fsnotify.Watcher
	store  *Store
	logger *zap.Logger
	subs   map[string][]chan Event
	done   chan struct{}
}

// NewWatcher starts watching the store's data directory.
func NewWatcher(store *Store, logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(store.Dir()); err != nil {
		fs.Close()
		return nil, err
	}
	w := &Watcher{
		fs:     fs,
		store:  store,
		logger: logger,
		subs:   make(map[string][]chan Event),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Subscribe returns a channel receiving external changes to key. The
// channel is buffered; a subscriber that stops draining loses events
// rather than blocking delivery.
func (w *Watcher) Subscribe(key string) <-chan Event {
	ch := make(chan Event, 8)
	w.mu.Lock()
	w.subs[key] = append(w.subs[key], ch)
	w.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel previously returned by
// Subscribe.
func (w *Watcher) Unsubscribe(key string, ch <-chan Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	chans := w.subs[key]
	for i, c := range chans {
		if c == ch {
			w.subs[key] = append(chans[:i], chans[i+1:]...)
			close(c)
			return
		}
	}
}

// Close stops the watcher and closes every subscription channel.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fs.Close()
	w.mu.Lock()
	for key, chans := range w.subs {
		for _, c := range chans {
			close(c)
		}
		delete(w.subs, key)
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			key, valid := keyForFileName(filepath.Base(ev.Name))
			if !valid {
				continue
			}
			if w.store.wasSelfWrite(key) {
				continue
			}
			value, _ := w.store.Read(key)
			w.dispatch(Event{Key: key, NewValue: value})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("storage watcher error", zap.Error(err))
		}
	}
}

// dispatch sends to every subscriber of the key. Sends happen under
// w.mu so Unsubscribe and Close cannot close a channel between the
// subscriber snapshot and the send; the sends never block, so holding
// the lock here is safe.
func (w *Watcher) dispatch(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.subs[ev.Key] {
		select {
		case c <- ev:
		default:
			w.logger.Warn("storage watcher subscriber lagging, event dropped",
				zap.String("key", ev.Key))
		}
	}
}
