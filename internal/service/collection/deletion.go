// Package collection removes collections from a user's view: owners delete the
// whole subtree with everything hanging off it, members only leave.
package collection

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

type deletionService struct {
	collectionRepo repositories.CollectionRepository
	membershipRepo repositories.MembershipRepository
	linkRepo       repositories.LinkRepository
	permissions    services.PermissionResolver
	treeDeleter    services.CollectionTreeDeleter
	ordering       services.OrderingListService
	dashboard      services.DashboardLayoutService
	assets         services.AssetStore
	searchIndex    services.SearchIndex // may be nil
	txManager      repositories.TransactionManager
	logger         *slog.Logger
}

// NewDeletionService creates the remove-or-delete entry point
func NewDeletionService(
	collectionRepo repositories.CollectionRepository,
	membershipRepo repositories.MembershipRepository,
	linkRepo repositories.LinkRepository,
	permissions services.PermissionResolver,
	treeDeleter services.CollectionTreeDeleter,
	ordering services.OrderingListService,
	dashboard services.DashboardLayoutService,
	assets services.AssetStore,
	searchIndex services.SearchIndex,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.CollectionDeletionService {
	return &deletionService{
		collectionRepo: collectionRepo,
		membershipRepo: membershipRepo,
		linkRepo:       linkRepo,
		permissions:    permissions,
		treeDeleter:    treeDeleter,
		ordering:       ordering,
		dashboard:      dashboard,
		assets:         assets,
		searchIndex:    searchIndex,
		txManager:      txManager,
		logger:         logger,
	}
}

func validateRequest(req *services.RemoveOrDeleteRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CollectionID, validation.Required, validation.Min(int64(1))),
	)
}

// RemoveOrDeleteCollection leaves the collection when the caller is a member and
// deletes it with its subtree when the caller owns it.
func (s *deletionService) RemoveOrDeleteCollection(ctx context.Context, req *services.RemoveOrDeleteRequest) (*models.DeletionResult, error) {
	if req == nil || validateRequest(req) != nil {
		return nil, domain.NewInvalidCollectionError()
	}

	permission, err := s.permissions.GetPermission(ctx, req.UserID, req.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}

	access := models.DecideAccess(permission, req.UserID)

	switch access {
	case models.AccessMember:
		return s.leave(ctx, req.UserID, req.CollectionID)
	case models.AccessOwner:
		return s.delete(ctx, req.UserID, req.CollectionID)
	default:
		s.logger.Info("collection not accessible",
			"user_id", req.UserID,
			"collection_id", req.CollectionID,
		)
		return nil, domain.NewNotAccessibleError()
	}
}

// leave drops the caller's membership and its traces in the caller's layout.
// The collection and its links stay; the links are marked index-stale.
func (s *deletionService) leave(ctx context.Context, userID, collectionID int64) (*models.DeletionResult, error) {
	membership, err := s.membershipRepo.Delete(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}

	if err := s.removeFromLayout(ctx, userID, collectionID); err != nil {
		return nil, err
	}

	stale, err := s.linkRepo.ClearIndexVersion(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("collection left",
		"user_id", userID,
		"collection_id", collectionID,
		"stale_links", stale,
	)

	return &models.DeletionResult{Kind: models.DeletionLeft, Membership: membership}, nil
}

// delete removes the collection, its subtree and everything referencing them in one transaction.
// Asset and search removals are not undone if the transaction rolls back.
func (s *deletionService) delete(ctx context.Context, userID, collectionID int64) (*models.DeletionResult, error) {
	var deleted *models.Collection

	ctx, effects := withSideEffects(ctx)
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.treeDeleter.DeleteSubtree(txCtx, collectionID); err != nil {
			return fmt.Errorf("delete subtree of collection %d: %w", collectionID, err)
		}

		if _, err := s.membershipRepo.DeleteAllByCollection(txCtx, collectionID); err != nil {
			return err
		}

		if err := removeAssetFolders(txCtx, s.assets, collectionID); err != nil {
			return err
		}

		if err := s.removeFromLayout(txCtx, userID, collectionID); err != nil {
			return err
		}

		linkIDs, err := s.linkRepo.ListIDsByCollection(txCtx, collectionID)
		if err != nil {
			return err
		}
		if err := removeFromIndex(txCtx, s.searchIndex, linkIDs); err != nil {
			return err
		}
		if _, err := s.linkRepo.DeleteAllByCollection(txCtx, collectionID); err != nil {
			return err
		}

		deleted, err = s.collectionRepo.Delete(txCtx, collectionID)
		return err
	})
	if err != nil {
		s.logger.Error("collection deletion rolled back",
			"user_id", userID,
			"collection_id", collectionID,
			"error", err,
		)
		if folders, linkIDs := effects.snapshot(); len(folders) > 0 || len(linkIDs) > 0 {
			s.logger.Warn("removals kept after rollback",
				"collection_id", collectionID,
				"asset_folders", folders,
				"search_link_ids", linkIDs,
			)
		}
		return nil, err
	}

	s.logger.Info("collection deleted",
		"user_id", userID,
		"collection_id", collectionID,
		"name", deleted.Name,
	)

	return &models.DeletionResult{Kind: models.DeletionDeleted, Collection: deleted}, nil
}

// removeFromLayout updates the ordering list and the dashboard concurrently.
// Both run to completion; the first failure is returned.
func (s *deletionService) removeFromLayout(ctx context.Context, userID, collectionID int64) error {
	var g errgroup.Group

	g.Go(func() error {
		return s.ordering.RemoveID(ctx, userID, collectionID)
	})
	g.Go(func() error {
		return s.dashboard.RemoveSection(ctx, userID, collectionID)
	})

	return g.Wait()
}
