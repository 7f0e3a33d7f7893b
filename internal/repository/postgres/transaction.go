package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookmarkd/internal/domain/repositories"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx executes a function within a transaction.
// A transaction already present in ctx is joined rather than nested.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.GetTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Error("rollback failed", "error", err)
		}
	}()

	txCtx := repositories.SetTx(ctx, newTxExecutor(tx))

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// txExecutor serialises statements on a transaction's single connection so
// that goroutines sharing the transaction never interleave on the wire.
// Result sets keep the lock until they are closed.
type txExecutor struct {
	tx pgx.Tx
	mu sync.Mutex
}

func newTxExecutor(tx pgx.Tx) *txExecutor {
	return &txExecutor{tx: tx}
}

func (e *txExecutor) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tx.Exec(ctx, sql, arguments...)
}

func (e *txExecutor) Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error) {
	e.mu.Lock()
	rows, err := e.tx.Query(ctx, sql, arguments...)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	return &lockedRows{Rows: rows, unlock: e.mu.Unlock}, nil
}

func (e *txExecutor) QueryRow(ctx context.Context, sql string, arguments ...interface{}) pgx.Row {
	e.mu.Lock()
	return &lockedRow{row: e.tx.QueryRow(ctx, sql, arguments...), unlock: e.mu.Unlock}
}

type lockedRows struct {
	pgx.Rows
	once   sync.Once
	unlock func()
}

func (r *lockedRows) Close() {
	r.Rows.Close()
	r.once.Do(r.unlock)
}

type lockedRow struct {
	row    pgx.Row
	unlock func()
}

func (r *lockedRow) Scan(dest ...interface{}) error {
	defer r.unlock()
	return r.row.Scan(dest...)
}
