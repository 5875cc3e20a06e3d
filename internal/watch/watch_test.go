package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// startLoop drives the debounce loop with synthetic events.
func startLoop(t *testing.T, w *Watcher) (chan fsnotify.Event, chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.loop(ctx, events, errs)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return events, errs, cancel
}

func waitForReloads(t *testing.T, count *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if count.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("reloads = %d, want %d", count.Load(), want)
}

func TestWatcher(t *testing.T) {
	t.Run("burst of writes fires one reload", func(t *testing.T) {
		var reloads atomic.Int32
		w := New("/data/source.csv", 30*time.Millisecond, func(ctx context.Context) error {
			reloads.Add(1)
			return nil
		})
		events, _, _ := startLoop(t, w)

		for range 5 {
			events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Write}
		}
		waitForReloads(t, &reloads, 1)

		// The window must have settled; a later write fires again.
		events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Write}
		waitForReloads(t, &reloads, 2)
	})

	t.Run("events for other files are ignored", func(t *testing.T) {
		var reloads atomic.Int32
		w := New("/data/source.csv", 10*time.Millisecond, func(ctx context.Context) error {
			reloads.Add(1)
			return nil
		})
		events, _, _ := startLoop(t, w)

		events <- fsnotify.Event{Name: "/data/other.csv", Op: fsnotify.Write}
		events <- fsnotify.Event{Name: "/data/source.csv.bak", Op: fsnotify.Write}
		time.Sleep(60 * time.Millisecond)
		if got := reloads.Load(); got != 0 {
			t.Errorf("reloads = %d, want 0", got)
		}
	})

	t.Run("chmod alone does not trigger", func(t *testing.T) {
		var reloads atomic.Int32
		w := New("/data/source.csv", 10*time.Millisecond, func(ctx context.Context) error {
			reloads.Add(1)
			return nil
		})
		events, _, _ := startLoop(t, w)

		events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Chmod}
		time.Sleep(60 * time.Millisecond)
		if got := reloads.Load(); got != 0 {
			t.Errorf("reloads = %d, want 0", got)
		}
	})

	t.Run("rename and create count as changes", func(t *testing.T) {
		var reloads atomic.Int32
		w := New("/data/source.csv", 10*time.Millisecond, func(ctx context.Context) error {
			reloads.Add(1)
			return nil
		})
		events, _, _ := startLoop(t, w)

		events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Create}
		waitForReloads(t, &reloads, 1)
	})

	t.Run("reload errors keep the watcher running", func(t *testing.T) {
		var reloads atomic.Int32
		w := New("/data/source.csv", 10*time.Millisecond, func(ctx context.Context) error {
			reloads.Add(1)
			return errors.New("boom")
		})
		events, errs, _ := startLoop(t, w)

		events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Write}
		waitForReloads(t, &reloads, 1)

		// Watcher errors are logged, not fatal.
		errs <- errors.New("watch error")

		events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Write}
		waitForReloads(t, &reloads, 2)
	})

	t.Run("cancellation stops the loop", func(t *testing.T) {
		w := New("/data/source.csv", 10*time.Millisecond, func(ctx context.Context) error {
			return nil
		})
		events, _, cancel := startLoop(t, w)
		cancel()
		// The loop must drain without accepting further events; give it
		// a moment, then confirm sends no longer block forever by using
		// a timeout.
		select {
		case events <- fsnotify.Event{Name: "/data/source.csv", Op: fsnotify.Write}:
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("zero stability window falls back to default", func(t *testing.T) {
		w := New("/data/source.csv", 0, nil)
		if w.stability != DefaultStabilityWindow {
			t.Errorf("stability = %v, want %v", w.stability, DefaultStabilityWindow)
		}
	})
}
