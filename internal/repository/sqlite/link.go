package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// SQLiteLinkRepository implements the LinkRepository interface
type SQLiteLinkRepository struct {
	db     *sql.DB
	tables *TableNames
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(config *RepositoryConfig) repositories.LinkRepository {
	return &SQLiteLinkRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// Create inserts a link
func (r *SQLiteLinkRepository) Create(ctx context.Context, link *models.Link) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, url, collection_id, index_version, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, r.tables.Links)

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		link.Name, link.URL, link.CollectionID, link.IndexVersion, formatTime(link.CreatedAt),
	).Scan(&link.ID)
	if err != nil {
		return fmt.Errorf("create link: %w", err)
	}

	return nil
}

// ListIDsByCollection returns the ids of every link directly in a collection
func (r *SQLiteLinkRepository) ListIDsByCollection(ctx context.Context, collectionID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE collection_id = ? ORDER BY id ASC`, r.tables.Links)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list link ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan link id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate link ids: %w", err)
	}

	return ids, nil
}

// DeleteAllByCollection removes every link directly in a collection
func (r *SQLiteLinkRepository) DeleteAllByCollection(ctx context.Context, collectionID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection_id = ?`, r.tables.Links)

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, collectionID)
	if err != nil {
		return 0, fmt.Errorf("delete links of collection %d: %w", collectionID, err)
	}

	return result.RowsAffected()
}

// ClearIndexVersion marks every link in a collection as index-stale
func (r *SQLiteLinkRepository) ClearIndexVersion(ctx context.Context, collectionID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET index_version = NULL WHERE collection_id = ?`, r.tables.Links)

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, collectionID)
	if err != nil {
		return 0, fmt.Errorf("clear index version of collection %d: %w", collectionID, err)
	}

	return result.RowsAffected()
}

// ListStale returns links that still need indexing, oldest first
func (r *SQLiteLinkRepository) ListStale(ctx context.Context, limit int) ([]models.Link, error) {
	query := fmt.Sprintf(`
		SELECT id, name, url, collection_id, index_version, created_at
		FROM %s
		WHERE index_version IS NULL
		ORDER BY id ASC
		LIMIT ?
	`, r.tables.Links)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale links: %w", err)
	}
	defer rows.Close()

	links := []models.Link{}
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.Name, &l.URL, &l.CollectionID, &l.IndexVersion, timestamp{&l.CreatedAt}); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return links, nil
}

// SetIndexVersion stamps the given links with an index version
func (r *SQLiteLinkRepository) SetIndexVersion(ctx context.Context, ids []int64, version int) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`UPDATE %s SET index_version = ? WHERE id IN (%s)`, r.tables.Links, placeholders)

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, version)
	for _, id := range ids {
		args = append(args, id)
	}

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set index version: %w", err)
	}

	return nil
}
