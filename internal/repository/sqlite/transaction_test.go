package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
)

type testRepos struct {
	cfg      *RepositoryConfig
	tx       *TransactionManager
	users    *SQLiteUserRepository
	sections *SQLiteDashboardSectionRepository
	links    *SQLiteLinkRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tables := NewTableNames("test_")
	require.NoError(t, EnsureSchema(ctx, db, tables))

	cfg := &RepositoryConfig{DB: db, Tables: tables, Logger: logger}
	return &testRepos{
		cfg:      cfg,
		tx:       NewTransactionManager(db, logger).(*TransactionManager),
		users:    NewUserRepository(cfg).(*SQLiteUserRepository),
		sections: NewDashboardSectionRepository(cfg).(*SQLiteDashboardSectionRepository),
		links:    NewLinkRepository(cfg).(*SQLiteLinkRepository),
	}
}

func TestDriverName(t *testing.T) {
	tests := map[string]string{
		":memory:":                     "sqlite",
		"file:bookmarkd.db":            "sqlite",
		"libsql://db-org.turso.io":     "libsql",
		"wss://db-org.turso.io?auth=x": "libsql",
	}
	for url, want := range tests {
		assert.Equal(t, want, DriverName(url), url)
	}
}

func TestExecTxRollsBackOnError(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := &models.User{Username: "u", CollectionOrder: []int64{1, 2}}
	require.NoError(t, r.users.Create(ctx, user))

	boom := errors.New("boom")
	err := r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, r.users.SetCollectionOrder(txCtx, user.ID, []int64{2}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	order, err := r.users.GetCollectionOrder(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, order)
}

func TestExecTxJoinsOuterTransaction(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := &models.User{Username: "u"}
	require.NoError(t, r.users.Create(ctx, user))
	section := &models.DashboardSection{UserID: user.ID, Type: models.SectionStats, Order: 0}
	require.NoError(t, r.sections.Create(ctx, section))

	boom := errors.New("boom")
	err := r.tx.ExecTx(ctx, func(outer context.Context) error {
		// the inner call commits nothing on its own
		require.NoError(t, r.tx.ExecTx(outer, func(inner context.Context) error {
			return r.sections.Delete(inner, section.ID)
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sections, err := r.sections.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, sections, 1)
}

func TestExecTxConcurrentStatements(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := &models.User{Username: "u", CollectionOrder: []int64{1, 2, 3}}
	require.NoError(t, r.users.Create(ctx, user))
	for i := 0; i < 3; i++ {
		require.NoError(t, r.sections.Create(ctx, &models.DashboardSection{UserID: user.ID, Type: models.SectionPinned, Order: i}))
	}

	err := r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		var wg sync.WaitGroup
		errs := make(chan error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- r.users.SetCollectionOrder(txCtx, user.ID, []int64{3})
		}()
		go func() {
			defer wg.Done()
			_, err := r.sections.DecrementOrderAfter(txCtx, user.ID, 0)
			errs <- err
		}()
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	order, err := r.users.GetCollectionOrder(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, order)
}

func TestUserRepositoryNotFound(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.users.GetCollectionOrder(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = r.users.SetCollectionOrder(ctx, 42, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboardDeleteNotFound(t *testing.T) {
	r := newTestRepos(t)

	err := r.sections.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLinkIndexVersion(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := &models.User{Username: "u"}
	require.NoError(t, r.users.Create(ctx, user))
	collections := NewCollectionRepository(r.cfg)
	c := &models.Collection{Name: "c", OwnerID: user.ID}
	require.NoError(t, collections.Create(ctx, c))

	version := 1
	var ids []int64
	for i := 0; i < 3; i++ {
		l := &models.Link{Name: "l", CollectionID: c.ID, IndexVersion: &version}
		require.NoError(t, r.links.Create(ctx, l))
		ids = append(ids, l.ID)
	}

	n, err := r.links.ClearIndexVersion(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	stale, err := r.links.ListStale(ctx, 2)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, ids[0], stale[0].ID)
	assert.False(t, stale[0].CreatedAt.IsZero())

	require.NoError(t, r.links.SetIndexVersion(ctx, ids[:2], 4))

	stale, err = r.links.ListStale(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, ids[2], stale[0].ID)
}
