package handlers

import (
	"context"
	"time"

	"github.com/flatdb/flatdb/internal/dataset"
	"github.com/flatdb/flatdb/internal/server/dto"
)

// HealthHandler handles health check and snapshot metadata requests.
type HealthHandler struct {
	ds      *dataset.Dataset
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ds *dataset.Dataset, version string) *HealthHandler {
	return &HealthHandler{ds: ds, version: version}
}

// Health handles health check requests.
func (h *HealthHandler) Health(ctx context.Context, req *dto.HealthRequest) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}, nil
}

// Info reports metadata about the currently loaded snapshot.
func (h *HealthHandler) Info(ctx context.Context, req *dto.GetInfoRequest) (*dto.GetInfoResponse, error) {
	snap := h.ds.Current()
	if snap == nil {
		return nil, dto.DatasetEmpty()
	}
	return &dto.GetInfoResponse{
		Source:      snap.SourcePath,
		LoadedAt:    snap.LoadedAt.Format(time.RFC3339),
		ByteSize:    snap.ByteSize,
		RowCount:    len(snap.Rows),
		ColumnCount: len(snap.Columns),
	}, nil
}
