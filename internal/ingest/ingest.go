// Package ingest turns a delimited file into a tabular.Snapshot.
//
// The first record is the header; its trimmed, non-empty fields become
// the column set in order, with a repeated name counting once. Data records shorter than the header leave
// the trailing columns missing (absent keys, not empty strings); fields
// beyond the header have no name and are dropped.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flatdb/flatdb/internal/tabular"
)

// Error is an ingestion failure: the source was missing, unreadable, or
// malformed. A reload that fails with Error leaves the previous
// snapshot untouched.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DetectDelimiter infers the field delimiter from the file extension:
// tab for .tsv, comma otherwise.
func DetectDelimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Load parses the delimited file at path into a snapshot. It returns
// *Error on any failure and never returns a partially loaded snapshot.
func Load(path string, delimiter rune) (*tabular.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	r := csv.NewReader(f)
	r.Comma = delimiter
	// Rows may be sparse; short records are handled below.
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	snap := &tabular.Snapshot{
		Rows:       []tabular.Row{},
		SourcePath: path,
		LoadedAt:   time.Now(),
		ByteSize:   info.Size(),
	}
	if len(records) == 0 {
		return snap, nil
	}

	// Keep the source field index of each named column so cells stay
	// aligned when a header field is blank and gets dropped. A repeated
	// header name keeps its first occurrence only; a row map can hold
	// one value per name anyway.
	var indices []int
	seen := make(map[string]bool)
	for i, h := range records[0] {
		if h = strings.TrimSpace(h); h != "" && !seen[h] {
			seen[h] = true
			snap.Columns = append(snap.Columns, h)
			indices = append(indices, i)
		}
	}

	for _, record := range records[1:] {
		row := make(tabular.Row, len(snap.Columns))
		for j, col := range snap.Columns {
			if i := indices[j]; i < len(record) {
				row[col] = record[i]
			}
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap, nil
}
