// Package tabular holds the in-memory representation of a delimited
// dataset and the query operations over it.
//
// A dataset is a Snapshot: an immutable pairing of rows and discovered
// column names, replaced wholesale on each reload. Query operations are
// pure functions over a snapshot's rows; none of them mutate their
// input, so they can be called concurrently without coordination.
package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Row is one record from the source file, keyed by column name. A key
// absent from the map is a missing cell. Cell values stay untyped
// strings; numeric interpretation happens per operation via ParseNumber
// so sort, lookup, and statistics agree on what counts as a number.
type Row map[string]string

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ParseNumber reports whether s represents a finite decimal number and
// returns its value. Leading and trailing whitespace is ignored; an
// empty or whitespace-only string is not a number. NaN and infinities
// (spelled out or via overflow like "1e999") are rejected: they cannot
// be carried in JSON, so treating them as numbers would poison the
// statistics output.
//
// This is the single numeric test shared by Sort, FindByID, and
// ColumnStats. Keeping it in one place guarantees the three operations
// never disagree on whether a cell is numeric.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParsePositiveInt parses s as a positive integer, returning def when s
// is empty or not a number, and clamping the result to a minimum of 1.
// Used for the page and limit query parameters, which arrive as plain
// strings and must never produce an error.
func ParsePositiveInt(s string, def int) int {
	n := def
	if s != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			n = v
		}
	}
	if n < 1 {
		return 1
	}
	return n
}
