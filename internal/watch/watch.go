// Package watch triggers dataset reloads when the source file changes
// on disk.
//
// The watcher observes the file's parent directory rather than the file
// itself, because most editors and atomic writers replace the file
// (rename over it), which would silently drop a watch on the old inode.
// Raw filesystem events are debounced: a burst of writes within the
// stability window counts as one settled change and fires one reload,
// so a half-written file is never ingested.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultStabilityWindow is the quiet period required after the last
// filesystem event before a change is treated as settled.
const DefaultStabilityWindow = 250 * time.Millisecond

// ReloadFunc is invoked once per settled change. Errors are logged and
// the watcher keeps running; the previous snapshot stays live.
type ReloadFunc func(ctx context.Context) error

// Watcher debounces filesystem events for one file and invokes a reload
// trigger per settled change.
type Watcher struct {
	path      string
	stability time.Duration
	reload    ReloadFunc
}

// New creates a watcher for the file at path. A zero or negative
// stability window falls back to DefaultStabilityWindow.
func New(path string, stability time.Duration, reload ReloadFunc) *Watcher {
	if stability <= 0 {
		stability = DefaultStabilityWindow
	}
	return &Watcher{path: path, stability: stability, reload: reload}
}

// Run watches until ctx is cancelled. It returns an error only when the
// underlying watcher cannot be created; per-event errors are logged.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = fsw.Close()
	}()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Watching source file", "path", w.path, "stabilityWindow", w.stability)
	w.loop(ctx, fsw.Events, fsw.Errors)
	return nil
}

// loop is the debounce core, separated from fsnotify setup so it can be
// driven with synthetic events.
func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	timer := time.NewTimer(w.stability)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case event, ok := <-events:
			if !ok {
				timer.Stop()
				return
			}
			if !w.relevant(event) {
				continue
			}
			// Restart the quiet period on every event in the burst.
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.stability)
			pending = true
		case err, ok := <-errs:
			if !ok {
				timer.Stop()
				return
			}
			slog.WarnContext(ctx, "Watcher error", "path", w.path, "err", err)
		case <-timer.C:
			pending = false
			if err := w.reload(ctx); err != nil {
				slog.WarnContext(ctx, "Reload failed, keeping previous snapshot", "path", w.path, "err", err)
			}
		}
	}
}

// relevant reports whether the event concerns the watched file and
// represents a content change.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
