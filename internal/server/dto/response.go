// Defines API response types.

package dto

// --- Rows ---

// PaginationResponse describes the position of the returned page within
// the full result set. Indices are 1-based; both are zero when the page
// is empty.
type PaginationResponse struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalRows  int  `json:"totalRows"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
	StartIndex int  `json:"startIndex"`
	EndIndex   int  `json:"endIndex"`
}

// ListRowsResponse is one page of rows plus pagination metadata.
type ListRowsResponse struct {
	Data       []map[string]string `json:"data"`
	Pagination PaginationResponse  `json:"pagination"`
}

// GetRowResponse is a response containing a single row.
type GetRowResponse struct {
	Data map[string]string `json:"data"`
	// IDColumn is the column the lookup matched against.
	IDColumn string `json:"idColumn"`
}

// --- Columns ---

// ListColumnsResponse lists the dataset's columns in discovery order.
type ListColumnsResponse struct {
	Columns []string `json:"columns"`
	Count   int      `json:"count"`
}

// --- Statistics ---

// ColumnStatsResponse holds descriptive statistics for one column.
type ColumnStatsResponse struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

// GetStatsResponse is a response containing statistics per column.
// Columns with no numeric values are absent.
type GetStatsResponse struct {
	Stats []ColumnStatsResponse `json:"stats"`
}

// --- Unique values ---

// GetValuesResponse lists the distinct values of one column in
// first-seen order.
type GetValuesResponse struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
	Count  int      `json:"count"`
}

// --- Meta ---

// HealthResponse is a response from the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// GetInfoResponse describes the currently loaded snapshot.
type GetInfoResponse struct {
	Source      string `json:"source"`
	LoadedAt    string `json:"loadedAt"`
	ByteSize    int64  `json:"byteSize"`
	RowCount    int    `json:"rowCount"`
	ColumnCount int    `json:"columnCount"`
}
