package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"bookmarkd/internal/domain"
)

func TestPgErrorClassification(t *testing.T) {
	duplicate := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "links_collection_id_fkey"}
	other := &pgconn.PgError{Code: "42P01"}

	tests := []struct {
		name       string
		err        error
		duplicate  bool
		foreignKey bool
		noRows     bool
	}{
		{"unique violation", duplicate, true, false, false},
		{"wrapped unique violation", fmt.Errorf("create user: %w", duplicate), true, false, false},
		{"foreign key violation", foreignKey, false, true, false},
		{"undefined table", other, false, false, false},
		{"no rows", pgx.ErrNoRows, false, false, true},
		{"plain error", errors.New("boom"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.duplicate, IsPgDuplicateError(tt.err))
			assert.Equal(t, tt.foreignKey, IsPgForeignKeyError(tt.err))
			assert.Equal(t, tt.noRows, IsPgNoRowsError(tt.err))
		})
	}
}

func TestMissingReference(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "memberships_collection_id_fkey"}
	err := missingReference(fk, "create membership")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "create membership")
	assert.Contains(t, err.Error(), "memberships_collection_id_fkey")

	dup := &pgconn.PgError{Code: "23505"}
	err = missingReference(dup, "create membership")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, dup)
	assert.True(t, IsPgDuplicateError(err))
}
