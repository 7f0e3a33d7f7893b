package repositories

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// LinkRepository defines data access operations for links
type LinkRepository interface {
	// Create inserts a link
	Create(ctx context.Context, link *models.Link) error

	// ListIDsByCollection returns the ids of every link directly in a collection
	ListIDsByCollection(ctx context.Context, collectionID int64) ([]int64, error)

	// DeleteAllByCollection removes every link directly in a collection
	DeleteAllByCollection(ctx context.Context, collectionID int64) (int64, error)

	// ClearIndexVersion marks every link in a collection as index-stale
	ClearIndexVersion(ctx context.Context, collectionID int64) (int64, error)

	// ListStale returns up to limit links whose index version is NULL, oldest first
	ListStale(ctx context.Context, limit int) ([]models.Link, error)

	// SetIndexVersion stamps the given links with an index version
	SetIndexVersion(ctx context.Context, ids []int64, version int) error
}
