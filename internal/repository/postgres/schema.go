package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables used by the collection core if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				collection_order BIGINT[] NOT NULL DEFAULT '{}',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				owner_id BIGINT NOT NULL REFERENCES %s(id),
				parent_id BIGINT REFERENCES %s(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Collections, tables.Users, tables.Collections),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_id_idx ON %s (parent_id)`,
			tables.Collections, tables.Collections),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id BIGINT NOT NULL REFERENCES %s(id),
				collection_id BIGINT NOT NULL REFERENCES %s(id),
				can_create BOOLEAN NOT NULL DEFAULT FALSE,
				can_update BOOLEAN NOT NULL DEFAULT FALSE,
				can_delete BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, collection_id)
			)`, tables.Memberships, tables.Users, tables.Collections),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL DEFAULT '',
				url TEXT NOT NULL DEFAULT '',
				collection_id BIGINT NOT NULL REFERENCES %s(id),
				index_version INTEGER,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Links, tables.Collections),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_collection_id_idx ON %s (collection_id)`,
			tables.Links, tables.Links),
		// Sections of other users bound to a deleted collection go with it
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(id),
				collection_id BIGINT REFERENCES %s(id) ON DELETE CASCADE,
				type TEXT NOT NULL,
				sort_order INTEGER NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.DashboardSections, tables.Users, tables.Collections),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// DropSchema drops every table created by EnsureSchema
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s, %s, %s, %s CASCADE`,
		tables.DashboardSections, tables.Links, tables.Memberships, tables.Collections, tables.Users)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
