package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	tests := map[string]string{
		":memory:":                          ":memory:?_pragma=foreign_keys(1)",
		"file:bookmarkd.db":                 "file:bookmarkd.db?_pragma=foreign_keys(1)",
		"file:e2e?mode=memory&cache=shared": "file:e2e?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		"file:x.db?_pragma=foreign_keys(1)": "file:x.db?_pragma=foreign_keys(1)",
	}
	for in, want := range tests {
		assert.Equal(t, want, withForeignKeys(in), in)
	}
}

func foreignKeysOn(t *testing.T, db *sql.DB) bool {
	t.Helper()
	var on int
	require.NoError(t, db.QueryRowContext(context.Background(), `PRAGMA foreign_keys`).Scan(&on))
	return on == 1
}

// recycle discards the pool's current connection so the next statement dials a new one
func recycle(t *testing.T, db *sql.DB) {
	t.Helper()
	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	conn.Raw(func(interface{}) error { return driver.ErrBadConn })
	conn.Close()
}

func TestOpenKeepsForeignKeysAcrossConnections(t *testing.T) {
	db, err := Open(context.Background(), "file:"+filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, foreignKeysOn(t, db))
	recycle(t, db)
	assert.True(t, foreignKeysOn(t, db), "new connection lost foreign keys")
}

func TestPragmaConnectorRunsOnEveryConnection(t *testing.T) {
	connector, err := newPragmaConnector("sqlite", "file:"+filepath.Join(t.TempDir(), "hook.db"), foreignKeysPragma)
	require.NoError(t, err)

	db := sql.OpenDB(connector)
	defer db.Close()
	db.SetMaxOpenConns(1)

	assert.True(t, foreignKeysOn(t, db))
	recycle(t, db)
	assert.True(t, foreignKeysOn(t, db))
}

func TestCascadeSurvivesReconnect(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "file:"+filepath.Join(t.TempDir(), "cascade.db"))
	require.NoError(t, err)
	defer db.Close()

	tables := NewTableNames("test_")
	require.NoError(t, EnsureSchema(ctx, db, tables))
	recycle(t, db)

	_, err = db.ExecContext(ctx, `INSERT INTO test_users (id, username) VALUES (1, 'u')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO test_collections (id, name, owner_id) VALUES (10, 'c', 1)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO test_dashboard_sections (user_id, collection_id, type, sort_order) VALUES (1, 10, 'COLLECTION', 0)`)
	require.NoError(t, err)

	recycle(t, db)
	_, err = db.ExecContext(ctx, `DELETE FROM test_collections WHERE id = 10`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM test_dashboard_sections`).Scan(&n))
	assert.Zero(t, n)
}
