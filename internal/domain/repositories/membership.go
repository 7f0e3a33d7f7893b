package repositories

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// MembershipRepository defines data access operations for the users-and-collections relation
type MembershipRepository interface {
	// Create grants userID access to a collection
	Create(ctx context.Context, membership *models.Membership) error

	// ListByCollection lists every membership on a collection
	ListByCollection(ctx context.Context, collectionID int64) ([]models.Membership, error)

	// Delete removes the single (userID, collectionID) relation and returns it.
	// Returns ErrNotFound if no such relation exists.
	Delete(ctx context.Context, userID, collectionID int64) (*models.Membership, error)

	// DeleteAllByCollection removes every membership on a collection
	DeleteAllByCollection(ctx context.Context, collectionID int64) (int64, error)
}
