package services

import (
	"context"

	"bookmarkd/internal/domain/models"
)

// RemoveOrDeleteRequest identifies the caller and the target collection
type RemoveOrDeleteRequest struct {
	UserID       int64 `json:"user_id"`
	CollectionID int64 `json:"collection_id"`
}

// CollectionDeletionService is the entry point for removing a collection from a user's view.
// Owners delete the collection and its whole subtree; members leave it.
type CollectionDeletionService interface {
	// RemoveOrDeleteCollection dispatches to the leave or delete path depending on
	// the caller's relationship to the collection.
	RemoveOrDeleteCollection(ctx context.Context, req *RemoveOrDeleteRequest) (*models.DeletionResult, error)
}

// CollectionTreeDeleter removes every descendant of a collection.
// The root collection row itself is left to the caller.
type CollectionTreeDeleter interface {
	DeleteSubtree(ctx context.Context, collectionID int64) error
}

// OrderingListService maintains the per-user sidebar ordering of collections
type OrderingListService interface {
	// RemoveID drops collectionID from the user's ordering. Absent ids and users are a no-op.
	RemoveID(ctx context.Context, userID, collectionID int64) error
}

// DashboardLayoutService maintains the per-user dashboard layout
type DashboardLayoutService interface {
	// RemoveSection deletes the user's section bound to collectionID, if any,
	// and closes the gap in the order values.
	RemoveSection(ctx context.Context, userID, collectionID int64) error
}

// PermissionResolver looks up the caller's relationship to a collection.
// Returns nil, nil when the caller is neither owner nor member.
type PermissionResolver interface {
	GetPermission(ctx context.Context, userID, collectionID int64) (*models.CollectionPermission, error)
}
