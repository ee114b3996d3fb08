package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration collapses event bursts (rapid edits, resize
// storms) to a single trailing-edge callback.
const DefaultDebounceDuration = 100 * time.Millisecond

// Debouncer coalesces bursts of triggers into one callback: every Trigger
// (re)starts a fixed-delay timer, and only the last trigger in a window
// fires its function. A zero or negative duration runs the function
// synchronously, which keeps tests deterministic.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer returns a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the debounce delay, superseding any
// previously scheduled function.
func (d *Debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
