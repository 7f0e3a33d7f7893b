package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// SQLiteCollectionRepository implements the CollectionRepository interface
type SQLiteCollectionRepository struct {
	db     *sql.DB
	tables *TableNames
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(config *RepositoryConfig) repositories.CollectionRepository {
	return &SQLiteCollectionRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

const collectionColumns = `id, name, description, owner_id, parent_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollection(row rowScanner) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.OwnerID,
		&c.ParentID,
		timestamp{&c.CreatedAt},
		timestamp{&c.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a collection
func (r *SQLiteCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, owner_id, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, r.tables.Collections)

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		collection.Name,
		collection.Description,
		collection.OwnerID,
		collection.ParentID,
		formatTime(collection.CreatedAt),
		formatTime(collection.UpdatedAt),
	).Scan(&collection.ID)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

// GetByID retrieves a collection by ID
func (r *SQLiteCollectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, collectionColumns, r.tables.Collections)

	executor := GetExecutor(ctx, r.db)
	c, err := scanCollection(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("collection %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return c, nil
}

// ListChildren lists the direct children of a collection
func (r *SQLiteCollectionRepository) ListChildren(ctx context.Context, parentID int64) ([]models.Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = ? ORDER BY id ASC`,
		collectionColumns, r.tables.Collections)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child collections: %w", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// Delete removes a collection row and returns it
func (r *SQLiteCollectionRepository) Delete(ctx context.Context, id int64) (*models.Collection, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? RETURNING %s`, r.tables.Collections, collectionColumns)

	executor := GetExecutor(ctx, r.db)
	c, err := scanCollection(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("collection %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete collection: %w", err)
	}

	return c, nil
}
