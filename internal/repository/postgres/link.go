package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// PostgresLinkRepository implements the LinkRepository interface
type PostgresLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(config *RepositoryConfig) repositories.LinkRepository {
	return &PostgresLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a link
func (r *PostgresLinkRepository) Create(ctx context.Context, link *models.Link) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, url, collection_id, index_version, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING id, created_at
	`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		link.Name,
		link.URL,
		link.CollectionID,
		link.IndexVersion,
		nullTime(link.CreatedAt),
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return missingReference(err, "create link")
	}

	return nil
}

// ListIDsByCollection returns the ids of every link directly in a collection
func (r *PostgresLinkRepository) ListIDsByCollection(ctx context.Context, collectionID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE collection_id = $1 ORDER BY id ASC`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, collectionID)
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
func (r *PostgresLinkRepository) DeleteAllByCollection(ctx context.Context, collectionID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection_id = $1`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, collectionID)
	if err != nil {
		return 0, fmt.Errorf("delete links of collection %d: %w", collectionID, err)
	}

	return result.RowsAffected(), nil
}

// ClearIndexVersion marks every link in a collection as index-stale
func (r *PostgresLinkRepository) ClearIndexVersion(ctx context.Context, collectionID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET index_version = NULL WHERE collection_id = $1`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, collectionID)
	if err != nil {
		return 0, fmt.Errorf("clear index version of collection %d: %w", collectionID, err)
	}

	return result.RowsAffected(), nil
}

// ListStale returns links that still need indexing, oldest first
func (r *PostgresLinkRepository) ListStale(ctx context.Context, limit int) ([]models.Link, error) {
	query := fmt.Sprintf(`
		SELECT id, name, url, collection_id, index_version, created_at
		FROM %s
		WHERE index_version IS NULL
		ORDER BY id ASC
		LIMIT $1
	`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale links: %w", err)
	}
	defer rows.Close()

	links := []models.Link{}
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.Name, &l.URL, &l.CollectionID, &l.IndexVersion, &l.CreatedAt); err != nil {
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
func (r *PostgresLinkRepository) SetIndexVersion(ctx context.Context, ids []int64, version int) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET index_version = $1 WHERE id = ANY($2)`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, version, ids); err != nil {
		return fmt.Errorf("set index version: %w", err)
	}

	return nil
}
