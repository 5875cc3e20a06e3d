package tabular

import (
	"math"
	"slices"
)

// ColumnStat holds descriptive statistics for the numeric values of one
// column. Mean and Median are rounded to two decimal places.
type ColumnStat struct {
	Column string
	Count  int
	Sum    float64
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	Range  float64
}

// ColumnStats computes per-column statistics over the numeric-parseable
// values of the named columns. Columns with zero numeric values are
// omitted from the result entirely.
//
// When names is empty, the candidate columns are those of allColumns
// present on the first row. A row carrying keys beyond the first row's
// is silently excluded from auto-detection; that mirrors the historic
// behavior and under-reports for sparse data, so callers wanting full
// coverage should pass names explicitly.
func ColumnStats(rows []Row, allColumns, names []string) []ColumnStat {
	if len(rows) == 0 {
		return []ColumnStat{}
	}
	candidates := names
	if len(candidates) == 0 {
		first := rows[0]
		for _, c := range allColumns {
			if _, ok := first[c]; ok {
				candidates = append(candidates, c)
			}
		}
	}
	out := []ColumnStat{}
	for _, col := range candidates {
		var values []float64
		for _, row := range rows {
			v, ok := row[col]
			if !ok {
				continue
			}
			if f, ok := ParseNumber(v); ok {
				values = append(values, f)
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, computeStat(col, values))
	}
	return out
}

// computeStat computes statistics over values. It sorts values in
// place; callers must pass a slice they own.
func computeStat(column string, values []float64) ColumnStat {
	slices.Sort(values)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	n := len(values)
	minV := values[0]
	maxV := values[n-1]
	return ColumnStat{
		Column: column,
		Count:  n,
		Sum:    sum,
		Mean:   round2(sum / float64(n)),
		Median: round2(median(values)),
		Min:    minV,
		Max:    maxV,
		Range:  maxV - minV,
	}
}

// median returns the median of an ascending-sorted slice, interpolating
// the two middle values when the count is even.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
