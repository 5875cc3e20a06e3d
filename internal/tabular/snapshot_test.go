package tabular

import (
	"sync"
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	t.Run("empty store returns nil", func(t *testing.T) {
		var s Store
		if got := s.Current(); got != nil {
			t.Errorf("Current() = %v, want nil", got)
		}
	})

	t.Run("replace swaps wholesale", func(t *testing.T) {
		var s Store
		s1 := &Snapshot{Rows: []Row{{"a": "1"}}, Columns: []string{"a"}, LoadedAt: time.Now()}
		s2 := &Snapshot{Rows: []Row{{"a": "2"}}, Columns: []string{"a"}, LoadedAt: time.Now()}
		s.Replace(s1)
		if s.Current() != s1 {
			t.Error("Current() should return the replaced snapshot")
		}
		s.Replace(s2)
		if s.Current() != s2 {
			t.Error("Current() should return the newest snapshot")
		}
		// The superseded snapshot is still intact for in-flight readers.
		if s1.Rows[0]["a"] != "1" {
			t.Error("old snapshot was mutated")
		}
	})

	t.Run("concurrent readers during swap", func(t *testing.T) {
		var s Store
		s.Replace(&Snapshot{Rows: []Row{{"n": "0"}}})
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 1000 {
					snap := s.Current()
					if snap == nil || len(snap.Rows) != 1 {
						t.Error("reader observed a torn snapshot")
						return
					}
				}
			}()
		}
		for i := range 1000 {
			s.Replace(&Snapshot{Rows: []Row{{"n": string(rune(i))}}})
		}
		wg.Wait()
	})
}

func TestSnapshotHelpers(t *testing.T) {
	snap := &Snapshot{Columns: []string{"id", "name"}}
	if got := snap.FirstColumn(); got != "id" {
		t.Errorf("FirstColumn() = %q, want id", got)
	}
	if !snap.HasColumn("name") || snap.HasColumn("nope") {
		t.Error("HasColumn misreported")
	}
	empty := &Snapshot{}
	if got := empty.FirstColumn(); got != "" {
		t.Errorf("FirstColumn() on empty = %q, want \"\"", got)
	}
}
