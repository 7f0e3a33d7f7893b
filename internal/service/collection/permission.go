package collection

import (
	"context"
	"errors"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

// StorePermissionResolver answers permission lookups from the collection and membership tables
type StorePermissionResolver struct {
	collectionRepo repositories.CollectionRepository
	membershipRepo repositories.MembershipRepository
}

// NewPermissionResolver creates a store-backed permission resolver
func NewPermissionResolver(
	collectionRepo repositories.CollectionRepository,
	membershipRepo repositories.MembershipRepository,
) *StorePermissionResolver {
	return &StorePermissionResolver{
		collectionRepo: collectionRepo,
		membershipRepo: membershipRepo,
	}
}

// GetPermission returns the owner and members of the collection when userID
// owns it or is one of its members, and nil otherwise.
func (r *StorePermissionResolver) GetPermission(ctx context.Context, userID, collectionID int64) (*models.CollectionPermission, error) {
	collection, err := r.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	members, err := r.membershipRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	permission := &models.CollectionPermission{
		CollectionID: collection.ID,
		OwnerID:      collection.OwnerID,
		Members:      members,
	}

	if permission.OwnerID != userID && !permission.HasMember(userID) {
		return nil, nil
	}

	return permission, nil
}

var _ services.PermissionResolver = (*StorePermissionResolver)(nil)
