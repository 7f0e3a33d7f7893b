package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// SQLiteDashboardSectionRepository implements the DashboardSectionRepository interface
type SQLiteDashboardSectionRepository struct {
	db     *sql.DB
	tables *TableNames
}

// NewDashboardSectionRepository creates a new dashboard section repository
func NewDashboardSectionRepository(config *RepositoryConfig) repositories.DashboardSectionRepository {
	return &SQLiteDashboardSectionRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

const sectionColumns = `id, user_id, collection_id, type, sort_order, created_at`

func scanSection(row rowScanner) (*models.DashboardSection, error) {
	var s models.DashboardSection
	if err := row.Scan(&s.ID, &s.UserID, &s.CollectionID, &s.Type, &s.Order, timestamp{&s.CreatedAt}); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a section
func (r *SQLiteDashboardSectionRepository) Create(ctx context.Context, s *models.DashboardSection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, collection_id, type, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, s.UserID, s.CollectionID, string(s.Type), s.Order, formatTime(s.CreatedAt)).
		Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create dashboard section: %w", err)
	}

	return nil
}

// FindByCollection returns the user's section bound to a collection
func (r *SQLiteDashboardSectionRepository) FindByCollection(ctx context.Context, userID, collectionID int64) (*models.DashboardSection, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = ? AND collection_id = ?
		ORDER BY id ASC
		LIMIT 1
	`, sectionColumns, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.db)
	s, err := scanSection(executor.QueryRowContext(ctx, query, userID, collectionID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("dashboard section for collection %d: %w", collectionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find dashboard section: %w", err)
	}

	return s, nil
}

// ListByUser returns the user's sections by order
func (r *SQLiteDashboardSectionRepository) ListByUser(ctx context.Context, userID int64) ([]models.DashboardSection, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ? ORDER BY sort_order ASC, id ASC`,
		sectionColumns, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list dashboard sections: %w", err)
	}
	defer rows.Close()

	sections := []models.DashboardSection{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dashboard section: %w", err)
		}
		sections = append(sections, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dashboard sections: %w", err)
	}

	return sections, nil
}

// Delete removes a section by ID
func (r *SQLiteDashboardSectionRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete dashboard section: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dashboard section: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("dashboard section %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DecrementOrderAfter shifts down every section of the user placed after order
func (r *SQLiteDashboardSectionRepository) DecrementOrderAfter(ctx context.Context, userID int64, order int) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET sort_order = sort_order - 1 WHERE user_id = ? AND sort_order > ?`,
		r.tables.DashboardSections)

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, userID, order)
	if err != nil {
		return 0, fmt.Errorf("compact dashboard sections: %w", err)
	}

	return result.RowsAffected()
}
