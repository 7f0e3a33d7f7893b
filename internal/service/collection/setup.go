package collection

import (
	"log/slog"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/repository"
)

// Services holds the collection services wired over one store
type Services struct {
	Deletion    services.CollectionDeletionService
	Permissions services.PermissionResolver
	Tree        services.CollectionTreeDeleter
	Ordering    services.OrderingListService
	Dashboard   services.DashboardLayoutService
	Reindexer   *Reindexer
}

// SetupServices wires the deletion flow and its collaborators.
// searchIndex may be nil when search is not configured.
func SetupServices(
	store *repository.Store,
	assets services.AssetStore,
	searchIndex services.SearchIndex,
	logger *slog.Logger,
) *Services {
	permissions := NewPermissionResolver(store.Collections, store.Memberships)
	tree := NewTreeDeleter(store.Collections, store.Memberships, store.Links, assets, searchIndex, logger)
	ordering := NewOrderingService(store.Users, logger)
	dashboard := NewDashboardService(store.Dashboard, store.Tx, logger)

	deletion := NewDeletionService(
		store.Collections,
		store.Memberships,
		store.Links,
		permissions,
		tree,
		ordering,
		dashboard,
		assets,
		searchIndex,
		store.Tx,
		logger,
	)

	return &Services{
		Deletion:    deletion,
		Permissions: permissions,
		Tree:        tree,
		Ordering:    ordering,
		Dashboard:   dashboard,
		Reindexer: NewReindexer(store.Links, searchIndex,
			config.StaleReindexBatchSize, config.SearchIndexVersion, logger),
	}
}
