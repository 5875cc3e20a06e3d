package handlers

import (
	"context"

	"github.com/flatdb/flatdb/internal/dataset"
	"github.com/flatdb/flatdb/internal/server/dto"
	"github.com/flatdb/flatdb/internal/tabular"
)

// RowsHandler serves the row listing and single-row lookup endpoints.
type RowsHandler struct {
	ds  *dataset.Dataset
	cfg *Config
}

// NewRowsHandler creates a new rows handler.
func NewRowsHandler(ds *dataset.Dataset, cfg *Config) *RowsHandler {
	return &RowsHandler{ds: ds, cfg: cfg}
}

// List filters, sorts, and paginates the dataset. The pipeline is
// search, then sort, then paginate, with projection applied to the
// returned page only: projection never changes the row count, so
// applying it last avoids projecting rows pagination drops.
func (h *RowsHandler) List(ctx context.Context, req *dto.ListRowsRequest) (*dto.ListRowsResponse, error) {
	snap := h.ds.Current()
	if snap == nil || len(snap.Rows) == 0 {
		return nil, dto.DatasetEmpty()
	}

	projection := tabular.ParseColumnList(req.Columns)
	for _, col := range projection {
		if !snap.HasColumn(col) {
			return nil, dto.ColumnNotFound(col, snap.Columns)
		}
	}
	if req.Sort != "" && !snap.HasColumn(req.Sort) {
		return nil, dto.ColumnNotFound(req.Sort, snap.Columns)
	}
	dir, _ := tabular.ParseDirection(req.Order)

	rows := tabular.Search(snap.Rows, req.Search)
	rows = tabular.Sort(rows, req.Sort, dir)

	page := tabular.ParsePositiveInt(req.Page, 1)
	limit := tabular.ParsePositiveInt(req.Limit, h.cfg.DefaultLimit)
	if h.cfg.MaxLimit > 0 && limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}
	result := tabular.Paginate(rows, page, limit)

	data := make([]map[string]string, len(result.Rows))
	for i, row := range tabular.Project(result.Rows, projection) {
		data[i] = row
	}
	return &dto.ListRowsResponse{
		Data:       data,
		Pagination: paginationResponse(result.Pagination),
	}, nil
}

// Get looks up a single row by value. Without an explicit idColumn the
// first discovered column is used as the lookup key; that is a
// convention inherited from the source format, not a primary key.
func (h *RowsHandler) Get(ctx context.Context, req *dto.GetRowRequest) (*dto.GetRowResponse, error) {
	snap := h.ds.Current()
	if snap == nil || len(snap.Rows) == 0 {
		return nil, dto.DatasetEmpty()
	}
	idColumn := req.IDColumn
	if idColumn == "" {
		idColumn = snap.FirstColumn()
	} else if !snap.HasColumn(idColumn) {
		return nil, dto.ColumnNotFound(idColumn, snap.Columns)
	}
	row, ok := tabular.FindByID(snap.Rows, req.ID, idColumn)
	if !ok {
		return nil, dto.RowNotFound(req.ID)
	}
	return &dto.GetRowResponse{Data: row, IDColumn: idColumn}, nil
}

func paginationResponse(p tabular.Pagination) dto.PaginationResponse {
	return dto.PaginationResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalRows:  p.TotalRows,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
		StartIndex: p.StartIndex,
		EndIndex:   p.EndIndex,
	}
}
