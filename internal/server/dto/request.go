// Defines API request types with path/query binding tags.
//
// Numeric-looking parameters (page, limit) stay strings here: the query
// engine defines the parsing-with-defaults rules, and a non-numeric
// value must fall back to the default rather than fail the request.

package dto

import "github.com/flatdb/flatdb/internal/tabular"

// --- Rows ---

// ListRowsRequest is a request to list rows with optional search,
// projection, sort, and pagination.
type ListRowsRequest struct {
	Search  string `query:"search"`
	Columns string `query:"columns"`
	Sort    string `query:"sort"`
	Order   string `query:"order"`
	Page    string `query:"page"`
	Limit   string `query:"limit"`
}

// Validate validates the list rows request fields.
func (r *ListRowsRequest) Validate() error {
	if _, ok := tabular.ParseDirection(r.Order); !ok {
		return BadRequest(`order must be "asc" or "desc"`)
	}
	return nil
}

// GetRowRequest is a request to look up a single row by ID.
type GetRowRequest struct {
	ID       string `path:"id"`
	IDColumn string `query:"idColumn"`
}

// Validate validates the get row request fields.
func (r *GetRowRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Columns ---

// ListColumnsRequest is a request to list the dataset's columns.
type ListColumnsRequest struct{}

// Validate is a no-op for ListColumnsRequest.
func (r *ListColumnsRequest) Validate() error {
	return nil
}

// --- Statistics ---

// GetStatsRequest is a request for per-column statistics.
type GetStatsRequest struct {
	Columns string `query:"columns"`
}

// Validate is a no-op for GetStatsRequest.
func (r *GetStatsRequest) Validate() error {
	return nil
}

// --- Unique values ---

// GetValuesRequest is a request for the distinct values of one column.
type GetValuesRequest struct {
	Column string `path:"column"`
}

// Validate validates the get values request fields.
func (r *GetValuesRequest) Validate() error {
	if r.Column == "" {
		return MissingField("column")
	}
	return nil
}

// --- Meta ---

// HealthRequest is a request for the health endpoint.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// GetInfoRequest is a request for snapshot metadata.
type GetInfoRequest struct{}

// Validate is a no-op for GetInfoRequest.
func (r *GetInfoRequest) Validate() error {
	return nil
}
