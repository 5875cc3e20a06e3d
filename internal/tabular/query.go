package tabular

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection selects ascending or descending order for Sort.
type SortDirection string

const (
	// SortAsc sorts smallest first. The default.
	SortAsc SortDirection = "asc"
	// SortDesc sorts largest first.
	SortDesc SortDirection = "desc"
)

// ParseDirection parses a direction string, defaulting to ascending
// when s is empty. The second return is false for an unrecognized
// value.
func ParseDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortAsc, true
	case string(SortAsc):
		return SortAsc, true
	case string(SortDesc):
		return SortDesc, true
	}
	return SortAsc, false
}

// Search returns the subsequence of rows where at least one cell value,
// case-folded, contains the case-folded term as a substring. An empty
// term returns rows unchanged. Missing cells never match.
func Search(rows []Row, term string) []Row {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)
	var out []Row
	for _, row := range rows {
		for _, v := range row {
			if strings.Contains(strings.ToLower(v), needle) {
				out = append(out, row)
				break
			}
		}
	}
	if out == nil {
		out = []Row{}
	}
	return out
}

// ParseColumnList splits a comma-separated column list, trimming
// whitespace and discarding empty entries.
func ParseColumnList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Project returns, for every row, a new row containing only the
// requested columns the row actually possesses. Missing keys are
// omitted, not null-filled. An empty column list returns rows
// unchanged.
func Project(rows []Row, columns []string) []Row {
	if len(columns) == 0 {
		return rows
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		p := make(Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok {
				p[col] = v
			}
		}
		out[i] = p
	}
	return out
}

// Sort returns a new slice of rows ordered by the named column. The
// sort is stable: rows with equal keys keep their input order.
//
// Rows missing the column sort after every row with a present value, in
// both directions. When both values are numeric they compare
// numerically; otherwise they compare as case-folded strings under
// locale-aware collation. The comparison is evaluated per pair, so a
// mixed column compares numerically only where both sides parse.
func Sort(rows []Row, column string, dir SortDirection) []Row {
	if len(rows) == 0 || column == "" {
		return rows
	}
	col := collate.New(language.Und, collate.IgnoreCase)
	out := make([]Row, len(rows))
	copy(out, rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		av, aok := a[column]
		bv, bok := b[column]
		// Missing values always sort to the tail, regardless of
		// direction.
		if !aok || !bok {
			if aok == bok {
				return 0
			}
			if !aok {
				return 1
			}
			return -1
		}
		var c int
		if af, ok := ParseNumber(av); ok {
			if bf, ok := ParseNumber(bv); ok {
				c = cmp.Compare(af, bf)
			} else {
				c = col.CompareString(av, bv)
			}
		} else {
			c = col.CompareString(av, bv)
		}
		if dir == SortDesc {
			c = -c
		}
		return c
	})
	return out
}

// Pagination describes the position of one page within the full row
// sequence. StartIndex and EndIndex are 1-based and both zero when the
// page is empty.
type Pagination struct {
	Page       int
	Limit      int
	TotalRows  int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	StartIndex int
	EndIndex   int
}

// PageResult is one page of rows plus its pagination metadata.
type PageResult struct {
	Rows       []Row
	Pagination Pagination
}

// Paginate slices rows into the requested page. Page and limit are
// clamped to a minimum of 1. A page beyond the last yields an empty
// slice with still-correct metadata; an empty input yields zero totals.
// Neither case is an error.
func Paginate(rows []Row, page, limit int) PageResult {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	total := len(rows)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	// Past the last page there is nothing to slice. Checking against
	// totalPages first also keeps (page-1)*limit from overflowing on
	// huge page values.
	data := []Row{}
	start := 0
	if page <= totalPages {
		start = (page - 1) * limit
		data = rows[start:min(start+limit, total)]
	}
	p := Pagination{
		Page:       page,
		Limit:      limit,
		TotalRows:  total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
	if len(data) > 0 {
		p.StartIndex = start + 1
		p.EndIndex = start + len(data)
	}
	return PageResult{Rows: data, Pagination: p}
}

// FindByID returns the first row whose value at idColumn matches id,
// either by exact string equality or, when both sides are numeric, by
// numeric equality. The second return is false when no row matches.
func FindByID(rows []Row, id, idColumn string) (Row, bool) {
	if id == "" || idColumn == "" {
		return nil, false
	}
	idNum, idIsNum := ParseNumber(id)
	for _, row := range rows {
		v, ok := row[idColumn]
		if !ok {
			continue
		}
		if v == id {
			return row, true
		}
		if idIsNum {
			if vn, ok := ParseNumber(v); ok && vn == idNum {
				return row, true
			}
		}
	}
	return nil, false
}

// UniqueValues collects the distinct non-missing values observed at
// column across all rows, preserving first-seen order.
func UniqueValues(rows []Row, column string) []string {
	out := []string{}
	if column == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, row := range rows {
		v, ok := row[column]
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
