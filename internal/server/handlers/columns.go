package handlers

import (
	"context"

	"github.com/flatdb/flatdb/internal/dataset"
	"github.com/flatdb/flatdb/internal/server/dto"
	"github.com/flatdb/flatdb/internal/tabular"
)

// ColumnsHandler serves column metadata, per-column statistics, and
// unique-value extraction.
type ColumnsHandler struct {
	ds *dataset.Dataset
}

// NewColumnsHandler creates a new columns handler.
func NewColumnsHandler(ds *dataset.Dataset) *ColumnsHandler {
	return &ColumnsHandler{ds: ds}
}

// List returns the dataset's column names in discovery order. It works
// on a header-only file too: only a never-loaded dataset is an error.
func (h *ColumnsHandler) List(ctx context.Context, req *dto.ListColumnsRequest) (*dto.ListColumnsResponse, error) {
	snap := h.ds.Current()
	if snap == nil {
		return nil, dto.DatasetEmpty()
	}
	columns := snap.Columns
	if columns == nil {
		columns = []string{}
	}
	return &dto.ListColumnsResponse{Columns: columns, Count: len(columns)}, nil
}

// Stats computes descriptive statistics for the requested columns, or
// for the first row's columns when none are named. Columns with no
// numeric values are left out of the response.
func (h *ColumnsHandler) Stats(ctx context.Context, req *dto.GetStatsRequest) (*dto.GetStatsResponse, error) {
	snap := h.ds.Current()
	if snap == nil || len(snap.Rows) == 0 {
		return nil, dto.DatasetEmpty()
	}
	names := tabular.ParseColumnList(req.Columns)
	for _, col := range names {
		if !snap.HasColumn(col) {
			return nil, dto.ColumnNotFound(col, snap.Columns)
		}
	}
	stats := tabular.ColumnStats(snap.Rows, snap.Columns, names)
	out := make([]dto.ColumnStatsResponse, len(stats))
	for i, s := range stats {
		out[i] = dto.ColumnStatsResponse{
			Column: s.Column,
			Count:  s.Count,
			Sum:    s.Sum,
			Mean:   s.Mean,
			Median: s.Median,
			Min:    s.Min,
			Max:    s.Max,
			Range:  s.Range,
		}
	}
	return &dto.GetStatsResponse{Stats: out}, nil
}

// Values returns the distinct non-missing values of one column in
// first-seen order.
func (h *ColumnsHandler) Values(ctx context.Context, req *dto.GetValuesRequest) (*dto.GetValuesResponse, error) {
	snap := h.ds.Current()
	if snap == nil || len(snap.Rows) == 0 {
		return nil, dto.DatasetEmpty()
	}
	if !snap.HasColumn(req.Column) {
		return nil, dto.ColumnNotFound(req.Column, snap.Columns)
	}
	values := tabular.UniqueValues(snap.Rows, req.Column)
	return &dto.GetValuesResponse{Column: req.Column, Values: values, Count: len(values)}, nil
}
