// Package sqlite stores collections in SQLite through database/sql.
// Local files and in-memory databases use the pure-Go modernc driver;
// libsql:// and wss:// URLs go to a remote libSQL (Turso) server.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *sql.DB
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users             string
	Collections       string
	Memberships       string
	Links             string
	DashboardSections string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:             fmt.Sprintf("%susers", prefix),
		Collections:       fmt.Sprintf("%scollections", prefix),
		Memberships:       fmt.Sprintf("%susers_and_collections", prefix),
		Links:             fmt.Sprintf("%slinks", prefix),
		DashboardSections: fmt.Sprintf("%sdashboard_sections", prefix),
	}
}

// DriverName picks the database/sql driver for a connection URL
func DriverName(dbURL string) string {
	if strings.HasPrefix(dbURL, "libsql://") || strings.HasPrefix(dbURL, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// Open connects to the database with foreign keys enabled on every connection.
// Local SQLite gets a single connection: writers would otherwise fight over
// the database lock, and an in-memory database lives only as long as its connection.
func Open(ctx context.Context, dbURL string) (*sql.DB, error) {
	driverName := DriverName(dbURL)

	var db *sql.DB
	if driverName == "sqlite" {
		var err error
		db, err = sql.Open(driverName, withForeignKeys(dbURL))
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", driverName, err)
		}
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		connector, err := newPragmaConnector(driverName, dbURL, foreignKeysPragma)
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", driverName, err)
		}
		db = sql.OpenDB(connector)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

const foreignKeysPragma = `PRAGMA foreign_keys = ON`

// withForeignKeys adds the modernc connection pragma so that every new
// connection enforces foreign keys, including ON DELETE CASCADE.
func withForeignKeys(dbURL string) string {
	if strings.Contains(dbURL, "_pragma=foreign_keys") {
		return dbURL
	}
	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "_pragma=foreign_keys(1)"
}

// pragmaConnector runs a statement on each connection the pool opens.
// libSQL has no DSN switch for foreign keys.
type pragmaConnector struct {
	driver.Connector
	pragma string
}

func newPragmaConnector(driverName, dsn, pragma string) (*pragmaConnector, error) {
	// sql.Open only resolves the driver; nothing is dialled here
	probe, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	drv := probe.Driver()
	probe.Close()

	var base driver.Connector = dsnConnector{dsn: dsn, driver: drv}
	if dc, ok := drv.(driver.DriverContext); ok {
		if base, err = dc.OpenConnector(dsn); err != nil {
			return nil, err
		}
	}

	return &pragmaConnector{Connector: base, pragma: pragma}, nil
}

func (c *pragmaConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("connection cannot run %q", c.pragma)
	}
	if _, err := execer.ExecContext(ctx, c.pragma, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run %q: %w", c.pragma, err)
	}

	return conn, nil
}

type dsnConnector struct {
	dsn    string
	driver driver.Driver
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) { return c.driver.Open(c.dsn) }
func (c dsnConnector) Driver() driver.Driver                        { return c.driver }

// EnsureSchema creates the tables used by the collection core if they do not exist
func EnsureSchema(ctx context.Context, db *sql.DB, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				collection_order TEXT NOT NULL DEFAULT '[]',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				owner_id INTEGER NOT NULL REFERENCES %s(id),
				parent_id INTEGER REFERENCES %s(id),
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.Collections, tables.Users, tables.Collections),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_id_idx ON %s (parent_id)`,
			tables.Collections, tables.Collections),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id INTEGER NOT NULL REFERENCES %s(id),
				collection_id INTEGER NOT NULL REFERENCES %s(id),
				can_create BOOLEAN NOT NULL DEFAULT 0,
				can_update BOOLEAN NOT NULL DEFAULT 0,
				can_delete BOOLEAN NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (user_id, collection_id)
			)`, tables.Memberships, tables.Users, tables.Collections),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL DEFAULT '',
				url TEXT NOT NULL DEFAULT '',
				collection_id INTEGER NOT NULL REFERENCES %s(id),
				index_version INTEGER,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.Links, tables.Collections),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_collection_id_idx ON %s (collection_id)`,
			tables.Links, tables.Links),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL REFERENCES %s(id),
				collection_id INTEGER REFERENCES %s(id) ON DELETE CASCADE,
				type TEXT NOT NULL,
				sort_order INTEGER NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.DashboardSections, tables.Users, tables.Collections),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// timeLayout is the text form timestamps are written in
const timeLayout = "2006-01-02 15:04:05.999999999-07:00"

var timeLayouts = []string{
	timeLayout,
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

// timestamp scans DATETIME columns whichever way the driver hands them over
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ts.t = time.Time{}
		return nil
	case time.Time:
		*ts.t = v
		return nil
	case []byte:
		return ts.parse(string(v))
	case string:
		return ts.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", value)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// DropSchema removes every table, children first
func DropSchema(ctx context.Context, db *sql.DB, tables *TableNames) error {
	for _, table := range []string{tables.DashboardSections, tables.Links, tables.Memberships, tables.Collections, tables.Users} {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	return nil
}
