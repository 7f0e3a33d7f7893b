package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// PostgresCollectionRepository implements the CollectionRepository interface
type PostgresCollectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(config *RepositoryConfig) repositories.CollectionRepository {
	return &PostgresCollectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a collection
func (r *PostgresCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, owner_id, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), COALESCE($6, NOW()))
		RETURNING id, created_at, updated_at
	`, r.tables.Collections)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		collection.Name,
		collection.Description,
		collection.OwnerID,
		collection.ParentID,
		nullTime(collection.CreatedAt),
		nullTime(collection.UpdatedAt),
	).Scan(&collection.ID, &collection.CreatedAt, &collection.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("create collection %q: owner or parent %w", collection.Name, domain.ErrNotFound)
		}
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

// GetByID retrieves a collection by ID
func (r *PostgresCollectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, owner_id, parent_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Collections)

	var c models.Collection
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.OwnerID,
		&c.ParentID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("collection %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return &c, nil
}

// ListChildren lists the direct children of a collection
func (r *PostgresCollectionRepository) ListChildren(ctx context.Context, parentID int64) ([]models.Collection, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, owner_id, parent_id, created_at, updated_at
		FROM %s
		WHERE parent_id = $1
		ORDER BY id ASC
	`, r.tables.Collections)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child collections: %w", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.OwnerID,
			&c.ParentID,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// Delete removes a collection row and returns it
func (r *PostgresCollectionRepository) Delete(ctx context.Context, id int64) (*models.Collection, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
		RETURNING id, name, description, owner_id, parent_id, created_at, updated_at
	`, r.tables.Collections)

	var c models.Collection
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.OwnerID,
		&c.ParentID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("collection %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete collection: %w", err)
	}

	return &c, nil
}
