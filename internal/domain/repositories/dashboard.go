package repositories

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// DashboardSectionRepository defines data access operations for dashboard sections
type DashboardSectionRepository interface {
	// Create inserts a section
	Create(ctx context.Context, section *models.DashboardSection) error

	// FindByCollection returns the user's section bound to collectionID.
	// Returns ErrNotFound if there is none.
	FindByCollection(ctx context.Context, userID, collectionID int64) (*models.DashboardSection, error)

	// ListByUser returns the user's sections ordered by their order value
	ListByUser(ctx context.Context, userID int64) ([]models.DashboardSection, error)

	// Delete removes a section by ID
	Delete(ctx context.Context, id int64) error

	// DecrementOrderAfter shifts down every section of userID whose order is greater than order
	DecrementOrderAfter(ctx context.Context, userID int64, order int) (int64, error)
}
