// Package handlers implements the HTTP API endpoint logic. Each
// handler is a typed function func(ctx, *Request) (*Response, error)
// adapted to net/http by the server package's Wrap.
package handlers

import "github.com/flatdb/flatdb/internal/dataset"

// Config holds the settings the handlers need.
type Config struct {
	// DefaultLimit is the page size when the request does not name one.
	DefaultLimit int
	// MaxLimit caps the requested page size. Zero means no cap.
	MaxLimit int
	// Version is the server build version reported by /api/health.
	Version string
}

// Services bundles the collaborators handed to handlers.
type Services struct {
	Dataset *dataset.Dataset
}
