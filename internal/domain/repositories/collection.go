package repositories

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// CollectionRepository defines data access operations for collections
type CollectionRepository interface {
	// Create inserts a collection and fills in its generated ID and timestamps
	Create(ctx context.Context, collection *models.Collection) error

	// GetByID retrieves a collection by ID
	GetByID(ctx context.Context, id int64) (*models.Collection, error)

	// ListChildren lists the direct children of a collection
	ListChildren(ctx context.Context, parentID int64) ([]models.Collection, error)

	// Delete removes a single collection row and returns it.
	// Returns ErrNotFound if the row does not exist.
	Delete(ctx context.Context, id int64) (*models.Collection, error)
}
