package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bookmarkd/internal/domain/repositories"
)

// DBTX is implemented by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txContextKey string

const txKey txContextKey = "sql_tx"

func setTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

func getTx(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey).(*sql.Tx)
	return tx
}

// GetExecutor returns the transaction carried by ctx, or db when there is none.
// database/sql serialises calls on a transaction's connection, so goroutines
// may share it.
func GetExecutor(ctx context.Context, db *sql.DB) DBTX {
	if tx := getTx(ctx); tx != nil {
		return tx
	}
	return db
}

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

// ExecTx executes a function within a transaction.
// A transaction already present in ctx is joined rather than nested.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tm.logger.Error("rollback failed", "error", err)
		}
	}()

	if err := fn(setTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
