// Package watcher turns on-disk changes to the viewed document into
// document-modified notifications. fsnotify is used where it works; remote
// filesystems (where inotify events are unreliable or absent) fall back to
// mtime/size polling.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/mdoutline/pkg/debug"
)

// DefaultPollInterval is the stat interval in polling fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched document was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window applied to change bursts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval for polling fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll forces polling mode even when fsnotify is available.
// MDO_FORCE_POLL=1 in the environment has the same effect.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors a single document file for changes.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	onError      func(error)
	forcePoll    bool

	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	lastMtime time.Time
	lastSize  int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for the document at path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching. Safe to call once per watcher.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	forcePoll := w.forcePoll || envBool("MDO_FORCE_POLL")
	w.polling = forcePoll || remoteFilesystem(w.path)

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	case os.IsPermission(err):
		return ErrPermission
	default:
		// Not existing yet is fine; creation shows up as a change.
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.polling = true
		} else {
			// Watch the containing directory: editors replace files via
			// rename, which a watch on the file itself would lose.
			if err := fsw.Add(filepath.Dir(w.path)); err != nil {
				fsw.Close()
				w.polling = true
			} else {
				w.fsw = fsw
				go w.runFsnotify()
			}
		}
	}
	if w.polling {
		debug.Log("watcher: polling %s every %v", w.path, w.pollInterval)
		go w.runPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel is left open; a receiver blocked
// on Changed() is released by process termination rather than a close that
// would race with notify.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// Changed returns the channel that receives after each (debounced) change.
func (w *Watcher) Changed() <-chan struct{} { return w.changeCh }

// IsPolling reports whether the watcher runs in polling fallback mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// Path returns the watched path.
func (w *Watcher) Path() string { return w.path }

func (w *Watcher) runFsnotify() {
	target := filepath.Base(w.path)

	w.mu.RLock()
	if w.fsw == nil {
		w.mu.RUnlock()
		return
	}
	events, errs := w.fsw.Events, w.fsw.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notify)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) runPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				switch {
				case os.IsNotExist(err):
					w.mu.RLock()
					existed := !w.lastMtime.IsZero()
					w.mu.RUnlock()
					if existed {
						w.onError(ErrFileRemoved)
					}
				case os.IsPermission(err):
					w.onError(ErrPermission)
				default:
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			changed := info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
			if changed {
				w.lastMtime = info.ModTime()
				w.lastSize = info.Size()
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notify)
			}
		}
	}
}

func (w *Watcher) notify() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
