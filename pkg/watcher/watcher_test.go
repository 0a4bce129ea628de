package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, w *Watcher, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-w.Changed():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"v":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitChange(t, w, 3*time.Second) {
		t.Fatal("expected a change notification")
	}
}

func TestWatcherDetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)

	tmp := filepath.Join(dir, "session.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"v":2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	if !waitChange(t, w, 3*time.Second) {
		t.Fatal("expected a change notification after atomic replace")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	w, err := New(path, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 10; i++ {
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !waitChange(t, w, 3*time.Second) {
		t.Fatal("expected a change notification")
	}
	// The burst collapses into a single buffered notification.
	select {
	case <-w.Changed():
		t.Error("expected the burst to be debounced into one notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherPollingMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithDebounce(10*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"v":3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitChange(t, w, 3*time.Second) {
		t.Fatal("expected a change notification in polling mode")
	}
}

func TestStartTwiceFails(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "f"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("err = %v, want ErrAlreadyStarted", err)
	}
}
