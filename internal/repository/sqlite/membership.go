package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/repositories"
)

// SQLiteMembershipRepository implements the MembershipRepository interface
type SQLiteMembershipRepository struct {
	db     *sql.DB
	tables *TableNames
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(config *RepositoryConfig) repositories.MembershipRepository {
	return &SQLiteMembershipRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

const membershipColumns = `user_id, collection_id, can_create, can_update, can_delete, created_at`

func scanMembership(row rowScanner) (*models.Membership, error) {
	var m models.Membership
	if err := row.Scan(&m.UserID, &m.CollectionID, &m.CanCreate, &m.CanUpdate, &m.CanDelete, timestamp{&m.CreatedAt}); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create grants a user access to a collection
func (r *SQLiteMembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`, r.tables.Memberships, membershipColumns)

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		m.UserID, m.CollectionID, m.CanCreate, m.CanUpdate, m.CanDelete, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

// ListByCollection lists every membership on a collection
func (r *SQLiteMembershipRepository) ListByCollection(ctx context.Context, collectionID int64) ([]models.Membership, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE collection_id = ? ORDER BY user_id ASC`,
		membershipColumns, r.tables.Memberships)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := []models.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}

// Delete removes a single membership and returns it
func (r *SQLiteMembershipRepository) Delete(ctx context.Context, userID, collectionID int64) (*models.Membership, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND collection_id = ? RETURNING %s`,
		r.tables.Memberships, membershipColumns)

	executor := GetExecutor(ctx, r.db)
	m, err := scanMembership(executor.QueryRowContext(ctx, query, userID, collectionID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("membership of user %d in collection %d: %w", userID, collectionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete membership: %w", err)
	}

	return m, nil
}

// DeleteAllByCollection removes every membership on a collection
func (r *SQLiteMembershipRepository) DeleteAllByCollection(ctx context.Context, collectionID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection_id = ?`, r.tables.Memberships)

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, collectionID)
	if err != nil {
		return 0, fmt.Errorf("delete memberships of collection %d: %w", collectionID, err)
	}

	return result.RowsAffected()
}
