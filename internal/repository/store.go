// Package repository opens the configured database backend and hands back
// its repositories behind the domain interfaces.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/repositories"
	"bookmarkd/internal/repository/postgres"
	"bookmarkd/internal/repository/sqlite"
)

// Store bundles the repositories of one database backend
type Store struct {
	Collections repositories.CollectionRepository
	Memberships repositories.MembershipRepository
	Links       repositories.LinkRepository
	Users       repositories.UserRepository
	Dashboard   repositories.DashboardSectionRepository
	Tx          repositories.TransactionManager

	close func()
	reset func(ctx context.Context) error
}

// Reset drops every table and creates the schema again
func (s *Store) Reset(ctx context.Context) error {
	return s.reset(ctx)
}

// Close releases the underlying connections
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to the database named by cfg and ensures the schema exists
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.DatabaseDriver {
	case "postgres", "postgresql":
		return openPostgres(ctx, cfg, logger)
	case "sqlite", "libsql":
		return OpenSQLite(ctx, cfg.DatabaseURL, cfg.TablePrefix, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, cfg.MaxConns, cfg.MinConns)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected",
		"driver", "postgres",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	return &Store{
		Collections: postgres.NewCollectionRepository(repoConfig),
		Memberships: postgres.NewMembershipRepository(repoConfig),
		Links:       postgres.NewLinkRepository(repoConfig),
		Users:       postgres.NewUserRepository(repoConfig),
		Dashboard:   postgres.NewDashboardSectionRepository(repoConfig),
		Tx:          postgres.NewTransactionManager(pool, logger),
		close:       pool.Close,
		reset: func(ctx context.Context) error {
			if err := postgres.DropSchema(ctx, pool, tables); err != nil {
				return err
			}
			return postgres.EnsureSchema(ctx, pool, tables)
		},
	}, nil
}

// OpenSQLite opens a SQLite or libSQL database. Tests use it with ":memory:".
func OpenSQLite(ctx context.Context, dbURL, tablePrefix string, logger *slog.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	tables := sqlite.NewTableNames(tablePrefix)
	if err := sqlite.EnsureSchema(ctx, db, tables); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database connected", "driver", sqlite.DriverName(dbURL))

	repoConfig := &sqlite.RepositoryConfig{
		DB:     db,
		Tables: tables,
		Logger: logger,
	}

	return &Store{
		Collections: sqlite.NewCollectionRepository(repoConfig),
		Memberships: sqlite.NewMembershipRepository(repoConfig),
		Links:       sqlite.NewLinkRepository(repoConfig),
		Users:       sqlite.NewUserRepository(repoConfig),
		Dashboard:   sqlite.NewDashboardSectionRepository(repoConfig),
		Tx:          sqlite.NewTransactionManager(db, logger),
		close:       func() { db.Close() },
		reset: func(ctx context.Context) error {
			if err := sqlite.DropSchema(ctx, db, tables); err != nil {
				return err
			}
			return sqlite.EnsureSchema(ctx, db, tables)
		},
	}, nil
}
