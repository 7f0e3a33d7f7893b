package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// PostgresDashboardSectionRepository implements the DashboardSectionRepository interface
type PostgresDashboardSectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDashboardSectionRepository creates a new dashboard section repository
func NewDashboardSectionRepository(config *RepositoryConfig) repositories.DashboardSectionRepository {
	return &PostgresDashboardSectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a section
func (r *PostgresDashboardSectionRepository) Create(ctx context.Context, s *models.DashboardSection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, collection_id, type, sort_order, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING id, created_at
	`, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, s.UserID, s.CollectionID, string(s.Type), s.Order, nullTime(s.CreatedAt)).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return missingReference(err, "create dashboard section")
	}

	return nil
}

// FindByCollection returns the user's section bound to a collection
func (r *PostgresDashboardSectionRepository) FindByCollection(ctx context.Context, userID, collectionID int64) (*models.DashboardSection, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, collection_id, type, sort_order, created_at
		FROM %s
		WHERE user_id = $1 AND collection_id = $2
		ORDER BY id ASC
		LIMIT 1
	`, r.tables.DashboardSections)

	var s models.DashboardSection
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID, collectionID).Scan(
		&s.ID, &s.UserID, &s.CollectionID, &s.Type, &s.Order, &s.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("dashboard section for collection %d: %w", collectionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find dashboard section: %w", err)
	}

	return &s, nil
}

// ListByUser returns the user's sections by order
func (r *PostgresDashboardSectionRepository) ListByUser(ctx context.Context, userID int64) ([]models.DashboardSection, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, collection_id, type, sort_order, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY sort_order ASC, id ASC
	`, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list dashboard sections: %w", err)
	}
	defer rows.Close()

	sections := []models.DashboardSection{}
	for rows.Next() {
		var s models.DashboardSection
		if err := rows.Scan(&s.ID, &s.UserID, &s.CollectionID, &s.Type, &s.Order, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dashboard section: %w", err)
		}
		sections = append(sections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dashboard sections: %w", err)
	}

	return sections, nil
}

// Delete removes a section by ID
func (r *PostgresDashboardSectionRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete dashboard section: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("dashboard section %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DecrementOrderAfter shifts down every section of the user placed after order
func (r *PostgresDashboardSectionRepository) DecrementOrderAfter(ctx context.Context, userID int64, order int) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET sort_order = sort_order - 1
		WHERE user_id = $1 AND sort_order > $2
	`, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, order)
	if err != nil {
		return 0, fmt.Errorf("compact dashboard sections: %w", err)
	}

	return result.RowsAffected(), nil
}
