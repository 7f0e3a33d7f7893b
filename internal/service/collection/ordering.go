package collection

import (
	"context"
	"errors"
	"log/slog"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

type orderingService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewOrderingService creates the sidebar ordering maintainer
func NewOrderingService(userRepo repositories.UserRepository, logger *slog.Logger) services.OrderingListService {
	return &orderingService{userRepo: userRepo, logger: logger}
}

// RemoveID rewrites the user's ordering without collectionID
func (s *orderingService) RemoveID(ctx context.Context, userID, collectionID int64) error {
	order, err := s.userRepo.GetCollectionOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("no ordering to update", "user_id", userID)
			return nil
		}
		return err
	}

	return s.userRepo.SetCollectionOrder(ctx, userID, models.WithoutCollection(order, collectionID))
}
