package collection

import (
	"context"
	"errors"
	"log/slog"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/domain/services"
)

type dashboardService struct {
	sectionRepo repositories.DashboardSectionRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewDashboardService creates the dashboard layout maintainer
func NewDashboardService(
	sectionRepo repositories.DashboardSectionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DashboardLayoutService {
	return &dashboardService{
		sectionRepo: sectionRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// RemoveSection deletes the user's section for collectionID and shifts the
// sections after it down by one, keeping the order values gap-free.
func (s *dashboardService) RemoveSection(ctx context.Context, userID, collectionID int64) error {
	section, err := s.sectionRepo.FindByCollection(ctx, userID, collectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.sectionRepo.Delete(txCtx, section.ID); err != nil {
			return err
		}

		shifted, err := s.sectionRepo.DecrementOrderAfter(txCtx, userID, section.Order)
		if err != nil {
			return err
		}

		s.logger.Debug("dashboard section removed",
			"user_id", userID,
			"section_id", section.ID,
			"order", section.Order,
			"shifted", shifted,
		)
		return nil
	})
}
