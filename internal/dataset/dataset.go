// Package dataset binds the row store to the ingestion layer and
// offers the single query surface the HTTP handlers consume.
package dataset

import (
	"context"
	"log/slog"
	"sync"

	"github.com/flatdb/flatdb/internal/ingest"
	"github.com/flatdb/flatdb/internal/tabular"
)

// Dataset owns the current snapshot of one source file. Reload replaces
// the snapshot on success and leaves the previous one authoritative on
// failure. Listeners registered with Subscribe receive each new
// snapshot after a successful reload.
type Dataset struct {
	path      string
	delimiter rune
	store     tabular.Store

	mu      sync.Mutex
	subs    map[int]chan *tabular.Snapshot
	nextSub int
}

// New creates a dataset for the file at path. No data is loaded until
// Reload is called.
func New(path string, delimiter rune) *Dataset {
	if delimiter == 0 {
		delimiter = ingest.DetectDelimiter(path)
	}
	return &Dataset{
		path:      path,
		delimiter: delimiter,
		subs:      make(map[int]chan *tabular.Snapshot),
	}
}

// Path returns the source file path.
func (d *Dataset) Path() string {
	return d.path
}

// Current returns the current snapshot, or nil when no load has
// succeeded yet.
func (d *Dataset) Current() *tabular.Snapshot {
	return d.store.Current()
}

// Reload re-ingests the source file. On success the new snapshot
// atomically replaces the current one and subscribers are notified; on
// failure the error is returned and the previous snapshot is untouched.
func (d *Dataset) Reload(ctx context.Context) error {
	snap, err := ingest.Load(d.path, d.delimiter)
	if err != nil {
		return err
	}
	d.store.Replace(snap)
	slog.InfoContext(ctx, "Dataset loaded", "path", d.path, "rows", len(snap.Rows), "columns", len(snap.Columns), "bytes", snap.ByteSize)
	d.notify(snap)
	return nil
}

// Subscribe registers a listener for new snapshots. The channel has a
// buffer of one; if a listener lags, intermediate snapshots are dropped
// in favor of the newest. The returned function unsubscribes and closes
// the channel.
func (d *Dataset) Subscribe() (<-chan *tabular.Snapshot, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	ch := make(chan *tabular.Snapshot, 1)
	d.subs[id] = ch
	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.subs[id]; ok {
			delete(d.subs, id)
			close(ch)
		}
	}
}

func (d *Dataset) notify(snap *tabular.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.subs {
		// Drop the stale queued snapshot, if any, then send the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// FindByID looks up the first row whose idColumn cell matches id,
// defaulting idColumn to the first discovered column.
func (d *Dataset) FindByID(id, idColumn string) (tabular.Row, bool) {
	snap := d.Current()
	if snap == nil {
		return nil, false
	}
	if idColumn == "" {
		idColumn = snap.FirstColumn()
	}
	return tabular.FindByID(snap.Rows, id, idColumn)
}

// Stats computes column statistics over the current snapshot,
// auto-detecting candidate columns from the first row when names is
// empty.
func (d *Dataset) Stats(names []string) []tabular.ColumnStat {
	snap := d.Current()
	if snap == nil {
		return []tabular.ColumnStat{}
	}
	return tabular.ColumnStats(snap.Rows, snap.Columns, names)
}

// UniqueValues returns the distinct non-missing values of column in the
// current snapshot, in first-seen order.
func (d *Dataset) UniqueValues(column string) []string {
	snap := d.Current()
	if snap == nil {
		return []string{}
	}
	return tabular.UniqueValues(snap.Rows, column)
}
