package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for debounce to complete
	time.Sleep(100 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool

	d.Trigger(func() {
		called.Store(true)
	})

	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_ZeroDelayRunsSynchronously(t *testing.T) {
	d := NewDebouncer(0)

	var called bool
	d.Trigger(func() { called = true })

	if !called {
		t.Error("zero-delay trigger should run inline")
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "notes.md")

	if err := os.WriteFile(tmpFile, []byte("# Initial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(tmpFile, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Give watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(tmpFile, []byte("# Modified\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(500 * time.Millisecond):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "notes.md")

	if err := os.WriteFile(tmpFile, []byte("# Initial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(tmpFile,
		WithDebounce(50*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected watcher to be in polling mode")
	}

	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(tmpFile, []byte("# Modified via polling\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(time.Second):
		t.Error("timeout waiting for polled change notification")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv("MDO_FORCE_POLL", "1")

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "notes.md")
	if err := os.WriteFile(tmpFile, []byte("# Initial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(tmpFile,
		WithDebounce(10*time.Millisecond),
		WithPollInterval(25*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected watcher to be in polling mode when MDO_FORCE_POLL is set")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "notes.md")

	if err := os.WriteFile(tmpFile, []byte("# Initial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var (
		errMu    sync.Mutex
		gotError error
	)

	w, err := New(tmpFile,
		WithDebounce(10*time.Millisecond),
		WithPollInterval(25*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			errMu.Lock()
			gotError = err
			errMu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)

	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	errMu.Lock()
	receivedError := gotError
	errMu.Unlock()

	if receivedError != ErrFileRemoved {
		t.Errorf("expected ErrFileRemoved, got %v", receivedError)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "notes.md")

	if err := os.WriteFile(tmpFile, []byte("# Initial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(tmpFile)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	// Double start should error
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()

	// Double stop should be safe
	w.Stop()

	// Restartable after a clean stop
	if err := w.Start(); err != nil {
		t.Errorf("restart after stop failed: %v", err)
	}
	w.Stop()
}

func TestWatcher_Path(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "notes.md")

	if err := os.WriteFile(tmpFile, []byte("# Initial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(tmpFile)
	if err != nil {
		t.Fatal(err)
	}

	absPath, _ := filepath.Abs(tmpFile)
	if w.Path() != absPath {
		t.Errorf("expected path %s, got %s", absPath, w.Path())
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"invalid", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("TEST_ENV_BOOL", tc.value)
			if got := envBool("TEST_ENV_BOOL"); got != tc.expected {
				t.Errorf("envBool(%q) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}
