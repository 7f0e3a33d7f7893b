package collection

import (
	"context"
	"fmt"
	"log/slog"

	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

// Reindexer writes index-stale links back into the search index and stamps them
type Reindexer struct {
	linkRepo    repositories.LinkRepository
	searchIndex services.SearchIndex
	batchSize   int
	version     int
	logger      *slog.Logger
}

// NewReindexer creates a reindexer that handles batchSize links per pass
func NewReindexer(
	linkRepo repositories.LinkRepository,
	searchIndex services.SearchIndex,
	batchSize int,
	version int,
	logger *slog.Logger,
) *Reindexer {
	return &Reindexer{
		linkRepo:    linkRepo,
		searchIndex: searchIndex,
		batchSize:   batchSize,
		version:     version,
		logger:      logger,
	}
}

// ReindexStale indexes every link whose index version is cleared and
// returns how many were written.
func (r *Reindexer) ReindexStale(ctx context.Context) (int, error) {
	if !searchEnabled(r.searchIndex) {
		return 0, nil
	}
	if r.batchSize <= 0 {
		return 0, fmt.Errorf("reindex batch size must be positive, got %d", r.batchSize)
	}

	total := 0
	for {
		links, err := r.linkRepo.ListStale(ctx, r.batchSize)
		if err != nil {
			return total, err
		}
		if len(links) == 0 {
			break
		}

		if err := r.searchIndex.IndexLinks(ctx, links); err != nil {
			return total, err
		}

		ids := make([]int64, len(links))
		for i, link := range links {
			ids[i] = link.ID
		}
		if err := r.linkRepo.SetIndexVersion(ctx, ids, r.version); err != nil {
			return total, err
		}

		total += len(links)
		r.logger.Debug("reindexed stale links", "batch", len(links), "total", total)

		if len(links) < r.batchSize {
			break
		}
	}

	return total, nil
}
