package collection

import (
	"context"
	"fmt"
	"log/slog"

	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

type treeDeleter struct {
	collectionRepo repositories.CollectionRepository
	membershipRepo repositories.MembershipRepository
	linkRepo       repositories.LinkRepository
	assets         services.AssetStore
	searchIndex    services.SearchIndex // may be nil
	logger         *slog.Logger
}

// NewTreeDeleter creates a deleter for collection subtrees
func NewTreeDeleter(
	collectionRepo repositories.CollectionRepository,
	membershipRepo repositories.MembershipRepository,
	linkRepo repositories.LinkRepository,
	assets services.AssetStore,
	searchIndex services.SearchIndex,
	logger *slog.Logger,
) services.CollectionTreeDeleter {
	return &treeDeleter{
		collectionRepo: collectionRepo,
		membershipRepo: membershipRepo,
		linkRepo:       linkRepo,
		assets:         assets,
		searchIndex:    searchIndex,
		logger:         logger,
	}
}

type treeFrame struct {
	id       int64
	expanded bool
}

// DeleteSubtree removes every descendant of collectionID, children before parents.
// The walk keeps its own stack, so depth is bounded by memory rather than the call stack.
func (d *treeDeleter) DeleteSubtree(ctx context.Context, collectionID int64) error {
	stack := []treeFrame{{id: collectionID}}
	seen := map[int64]bool{collectionID: true}
	removed := 0

	for len(stack) > 0 {
		top := len(stack) - 1

		if !stack[top].expanded {
			stack[top].expanded = true

			children, err := d.collectionRepo.ListChildren(ctx, stack[top].id)
			if err != nil {
				return fmt.Errorf("list children of collection %d: %w", stack[top].id, err)
			}

			// pushed in reverse so siblings are removed in ascending id order
			for i := len(children) - 1; i >= 0; i-- {
				child := children[i].ID
				if seen[child] {
					return fmt.Errorf("collection %d appears twice under %d: parent cycle", child, collectionID)
				}
				seen[child] = true
				stack = append(stack, treeFrame{id: child})
			}
			continue
		}

		frame := stack[top]
		stack = stack[:top]

		if frame.id == collectionID {
			continue
		}

		if err := d.deleteNode(ctx, frame.id); err != nil {
			return err
		}
		removed++
	}

	d.logger.Debug("collection subtree deleted", "root_id", collectionID, "descendants", removed)
	return nil
}

// deleteNode removes one collection whose children are already gone:
// memberships, search entries, links, the row itself, then its asset folders.
func (d *treeDeleter) deleteNode(ctx context.Context, id int64) error {
	if _, err := d.membershipRepo.DeleteAllByCollection(ctx, id); err != nil {
		return err
	}

	linkIDs, err := d.linkRepo.ListIDsByCollection(ctx, id)
	if err != nil {
		return err
	}
	if err := removeFromIndex(ctx, d.searchIndex, linkIDs); err != nil {
		return fmt.Errorf("remove links of collection %d from search: %w", id, err)
	}

	if _, err := d.linkRepo.DeleteAllByCollection(ctx, id); err != nil {
		return err
	}

	if _, err := d.collectionRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := removeAssetFolders(ctx, d.assets, id); err != nil {
		return err
	}

	d.logger.Debug("deleted child collection", "id", id, "links", len(linkIDs))
	return nil
}
