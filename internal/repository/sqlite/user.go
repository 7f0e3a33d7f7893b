package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// SQLiteUserRepository implements the UserRepository interface.
// The collection order is kept as a JSON array in a TEXT column.
type SQLiteUserRepository struct {
	db     *sql.DB
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &SQLiteUserRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

func encodeOrder(order []int64) (string, error) {
	if order == nil {
		order = []int64{}
	}
	data, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("encode collection order: %w", err)
	}
	return string(data), nil
}

// Create inserts a user
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	order, err := encodeOrder(user.CollectionOrder)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (username, collection_order, created_at) VALUES (?, ?, ?) RETURNING id`,
		r.tables.Users)

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, user.Username, order, formatTime(user.CreatedAt)).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetCollectionOrder returns the user's sidebar ordering
func (r *SQLiteUserRepository) GetCollectionOrder(ctx context.Context, userID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT collection_order FROM %s WHERE id = ?`, r.tables.Users)

	var raw string
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, userID).Scan(&raw); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collection order: %w", err)
	}

	order := []int64{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &order); err != nil {
			return nil, fmt.Errorf("decode collection order of user %d: %w", userID, err)
		}
	}

	return order, nil
}

// SetCollectionOrder replaces the user's sidebar ordering
func (r *SQLiteUserRepository) SetCollectionOrder(ctx context.Context, userID int64, order []int64) error {
	encoded, err := encodeOrder(order)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET collection_order = ? WHERE id = ?`, r.tables.Users)

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, encoded, userID)
	if err != nil {
		return fmt.Errorf("set collection order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set collection order: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	return nil
}
