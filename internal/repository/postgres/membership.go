package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// PostgresMembershipRepository implements the MembershipRepository interface
type PostgresMembershipRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(config *RepositoryConfig) repositories.MembershipRepository {
	return &PostgresMembershipRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create grants a user access to a collection
func (r *PostgresMembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, collection_id, can_create, can_update, can_delete, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	`, r.tables.Memberships)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		m.UserID,
		m.CollectionID,
		m.CanCreate,
		m.CanUpdate,
		m.CanDelete,
		nullTime(m.CreatedAt),
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user %d is already a member of collection %d", m.UserID, m.CollectionID),
				ResourceType: "membership",
				ResourceID:   fmt.Sprintf("%d:%d", m.UserID, m.CollectionID),
			}
		}
		return missingReference(err, "create membership")
	}

	return nil
}

// ListByCollection lists every membership on a collection
func (r *PostgresMembershipRepository) ListByCollection(ctx context.Context, collectionID int64) ([]models.Membership, error) {
	query := fmt.Sprintf(`
		SELECT user_id, collection_id, can_create, can_update, can_delete, created_at
		FROM %s
		WHERE collection_id = $1
		ORDER BY user_id ASC
	`, r.tables.Memberships)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.UserID, &m.CollectionID, &m.CanCreate, &m.CanUpdate, &m.CanDelete, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}

// Delete removes a single membership and returns it
func (r *PostgresMembershipRepository) Delete(ctx context.Context, userID, collectionID int64) (*models.Membership, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND collection_id = $2
		RETURNING user_id, collection_id, can_create, can_update, can_delete, created_at
	`, r.tables.Memberships)

	var m models.Membership
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID, collectionID).Scan(
		&m.UserID, &m.CollectionID, &m.CanCreate, &m.CanUpdate, &m.CanDelete, &m.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("membership of user %d in collection %d: %w", userID, collectionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete membership: %w", err)
	}

	return &m, nil
}

// DeleteAllByCollection removes every membership on a collection
func (r *PostgresMembershipRepository) DeleteAllByCollection(ctx context.Context, collectionID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection_id = $1`, r.tables.Memberships)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, collectionID)
	if err != nil {
		return 0, fmt.Errorf("delete memberships of collection %d: %w", collectionID, err)
	}

	return result.RowsAffected(), nil
}
