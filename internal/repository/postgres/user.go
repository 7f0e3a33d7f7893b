package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, collection_order, created_at)
		VALUES ($1, $2, COALESCE($3, NOW()))
		RETURNING id, created_at
	`, r.tables.Users)

	order := user.CollectionOrder
	if order == nil {
		order = []int64{}
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, user.Username, order, nullTime(user.CreatedAt)).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user '%s' already exists", user.Username),
				ResourceType: "user",
				ResourceID:   user.Username,
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetCollectionOrder returns the user's sidebar ordering
func (r *PostgresUserRepository) GetCollectionOrder(ctx context.Context, userID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT collection_order FROM %s WHERE id = $1`, r.tables.Users)

	var order []int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&order); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collection order: %w", err)
	}

	if order == nil {
		order = []int64{}
	}

	return order, nil
}

// SetCollectionOrder replaces the user's sidebar ordering
func (r *PostgresUserRepository) SetCollectionOrder(ctx context.Context, userID int64, order []int64) error {
	query := fmt.Sprintf(`UPDATE %s SET collection_order = $1 WHERE id = $2`, r.tables.Users)

	if order == nil {
		order = []int64{}
	}

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, order, userID)
	if err != nil {
		return fmt.Errorf("set collection order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	return nil
}
