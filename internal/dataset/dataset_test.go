package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flatdb/flatdb/internal/ingest"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func setupDataset(t *testing.T, content string) (*Dataset, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	writeSource(t, path, content)
	ds := New(path, 0)
	if err := ds.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	return ds, path
}

func TestDataset(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		ds, _ := setupDataset(t, "id,name\n1,Alice\n2,Bob\n")
		snap := ds.Current()
		if snap == nil || len(snap.Rows) != 2 {
			t.Fatalf("Current() = %v", snap)
		}
	})

	t.Run("not loaded yet", func(t *testing.T) {
		ds := New(filepath.Join(t.TempDir(), "missing.csv"), 0)
		if ds.Current() != nil {
			t.Error("Current() should be nil before a successful load")
		}
		if err := ds.Reload(context.Background()); err == nil {
			t.Error("Reload of a missing file should fail")
		}
	})

	t.Run("failed reload keeps last-good snapshot", func(t *testing.T) {
		ds, path := setupDataset(t, "id,name\n1,Alice\n")
		good := ds.Current()

		if err := os.Remove(path); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		err := ds.Reload(context.Background())
		var ingErr *ingest.Error
		if !errors.As(err, &ingErr) {
			t.Fatalf("Reload err = %v, want *ingest.Error", err)
		}
		if ds.Current() != good {
			t.Error("failed reload must not replace the snapshot")
		}
		if row, ok := ds.FindByID("1", ""); !ok || row["name"] != "Alice" {
			t.Errorf("queries after failed reload = %v, %v, want last-good data", row, ok)
		}
	})

	t.Run("successful reload replaces snapshot", func(t *testing.T) {
		ds, path := setupDataset(t, "id,name\n1,Alice\n")
		writeSource(t, path, "id,name\n1,Alice\n2,Bob\n")
		if err := ds.Reload(context.Background()); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if got := len(ds.Current().Rows); got != 2 {
			t.Errorf("rows after reload = %d, want 2", got)
		}
	})

	t.Run("subscribe receives new snapshot", func(t *testing.T) {
		ds, path := setupDataset(t, "id\n1\n")
		ch, unsubscribe := ds.Subscribe()
		defer unsubscribe()

		writeSource(t, path, "id\n1\n2\n")
		if err := ds.Reload(context.Background()); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		select {
		case snap := <-ch:
			if len(snap.Rows) != 2 {
				t.Errorf("notified snapshot has %d rows, want 2", len(snap.Rows))
			}
		case <-time.After(time.Second):
			t.Fatal("no notification received")
		}
	})

	t.Run("lagging subscriber gets newest snapshot", func(t *testing.T) {
		ds, path := setupDataset(t, "id\n1\n")
		ch, unsubscribe := ds.Subscribe()
		defer unsubscribe()

		writeSource(t, path, "id\n1\n2\n")
		if err := ds.Reload(context.Background()); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		writeSource(t, path, "id\n1\n2\n3\n")
		if err := ds.Reload(context.Background()); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		snap := <-ch
		if len(snap.Rows) != 3 {
			t.Errorf("lagging subscriber got %d rows, want newest (3)", len(snap.Rows))
		}
	})

	t.Run("unsubscribe closes channel", func(t *testing.T) {
		ds, _ := setupDataset(t, "id\n1\n")
		ch, unsubscribe := ds.Subscribe()
		unsubscribe()
		if _, ok := <-ch; ok {
			t.Error("channel should be closed after unsubscribe")
		}
		// Unsubscribing twice is harmless.
		unsubscribe()
	})

	t.Run("find by id defaults to first column", func(t *testing.T) {
		ds, _ := setupDataset(t, "sku,name\nA-1,Widget\nA-2,Gadget\n")
		row, ok := ds.FindByID("A-2", "")
		if !ok || row["name"] != "Gadget" {
			t.Errorf("FindByID = %v, %v", row, ok)
		}
	})

	t.Run("stats and values over current snapshot", func(t *testing.T) {
		ds, _ := setupDataset(t, "id,price\n1,10\n2,20\n")
		stats := ds.Stats(nil)
		if len(stats) != 2 {
			t.Fatalf("stats = %+v, want id and price", stats)
		}
		values := ds.UniqueValues("price")
		if len(values) != 2 {
			t.Errorf("values = %v", values)
		}
	})
}
