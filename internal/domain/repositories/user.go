package repositories

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// Create inserts a user
	Create(ctx context.Context, user *models.User) error

	// GetCollectionOrder returns the user's sidebar ordering.
	// Returns ErrNotFound if the user does not exist.
	GetCollectionOrder(ctx context.Context, userID int64) ([]int64, error)

	// SetCollectionOrder replaces the user's sidebar ordering as a whole
	SetCollectionOrder(ctx context.Context, userID int64, order []int64) error
}
