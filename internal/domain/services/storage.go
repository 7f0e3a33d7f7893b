package services

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// AssetStore holds archived documents and previews, grouped in folders per collection
type AssetStore interface {
	// RemoveFolder deletes everything under filePath. A missing path is not an error.
	RemoveFolder(ctx context.Context, filePath string) error
}

// SearchIndex is the full-text index over links
type SearchIndex interface {
	// DeleteDocuments removes the given link ids. An empty slice is a no-op.
	DeleteDocuments(ctx context.Context, ids []int64) error

	// IndexLinks adds or replaces the given links
	IndexLinks(ctx context.Context, links []models.Link) error

	// Enabled reports whether a backing index is configured
	Enabled() bool
}
