package tabular

import (
	"sync/atomic"
	"time"
)

// Snapshot is one immutable, fully-loaded view of the dataset. It is
// created by the ingestion layer, handed to a Store, and superseded
// (never merged) by the next successful reload. Nothing mutates a
// snapshot after it is published.
type Snapshot struct {
	// Rows in source order.
	Rows []Row
	// Columns is the union of keys observed across all rows, each
	// exactly once, in first-seen order.
	Columns []string
	// SourcePath is the file this snapshot was loaded from.
	SourcePath string
	// LoadedAt is when the load completed.
	LoadedAt time.Time
	// ByteSize is the size of the source file at load time.
	ByteSize int64
}

// FirstColumn returns the first discovered column name, or "" when the
// snapshot has no columns. It is the implicit row-lookup key: not a
// designated primary key, merely whatever column was discovered first.
func (s *Snapshot) FirstColumn() string {
	if len(s.Columns) == 0 {
		return ""
	}
	return s.Columns[0]
}

// HasColumn reports whether name is one of the snapshot's columns.
func (s *Snapshot) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Store holds the current snapshot behind an atomic pointer. Readers
// grab a reference and keep using it even if a reload swaps in a new
// snapshot concurrently; a failed reload simply never calls Replace, so
// the last-good snapshot stays authoritative by construction.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// Current returns the current snapshot, or nil when nothing has been
// loaded yet.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace atomically swaps in a new snapshot. In-flight readers holding
// the previous snapshot are unaffected.
func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
}
