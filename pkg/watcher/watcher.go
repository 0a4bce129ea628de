// Package watcher monitors the session and outline files for external
// changes, typically writes landing from the sync layer. It watches the
// containing directory through fsnotify (atomic replace means the file
// itself disappears and reappears) with a polling fallback for
// filesystems where fsnotify is unreliable, and debounces bursts into a
// single notification.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for debounce and fallback polling.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// ErrAlreadyStarted is returned by Start on a running watcher.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll forces polling even when fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors one file.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	polling   bool
	lastMtime time.Time
	lastSize  int64

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex

	debounceTimer *time.Timer
	changeCh      chan struct{}
}

// New creates a watcher for the given file path. The file does not have
// to exist yet; its creation counts as a change.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Changed returns a channel that receives one value per debounced change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	} else {
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	w.polling = true
	if !w.forcePoll {
		if fsw, err := fsnotify.NewWatcher(); err == nil {
			// Watch the directory: atomic replace swaps the file inode, so
			// watching the file itself would go stale after the first write.
			if err := fsw.Add(filepath.Dir(w.path)); err == nil {
				w.fsWatcher = fsw
				w.polling = false
				go w.watchFsnotify()
			} else {
				fsw.Close()
			}
		}
	}
	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel is left open; a reader blocked
// on it is released by process shutdown.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.started = false
}

func (w *Watcher) watchFsnotify() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if ev.Name == w.path {
				w.scheduleNotify()
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Errors degrade silently; the next poll of the UI will still
			// read a consistent file thanks to atomic replace.
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			w.mu.Lock()
			changed := info.ModTime() != w.lastMtime || info.Size() != w.lastSize
			w.lastMtime = info.ModTime()
			w.lastSize = info.Size()
			w.mu.Unlock()
			if changed {
				w.scheduleNotify()
			}
		}
	}
}

// scheduleNotify collapses a burst of events into one notification after
// the debounce window.
func (w *Watcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		select {
		case w.changeCh <- struct{}{}:
		default:
		}
	})
}
