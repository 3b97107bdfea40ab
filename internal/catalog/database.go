// Package catalog is the gateway to the catalog store, a SQLite database of
// objects, agents, classifiers, places, departments and references.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

var (
	// ErrStoreNotFound indicates the store file does not exist.
	ErrStoreNotFound = errors.New("catalog store not found")
)

// Gateway executes parameterized SQL against the store and returns rows.
// *Database, *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Gateway interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Database is the SQLite store handle.
type Database struct {
	db   *sql.DB
	path string
}

// Open opens an existing store for reading. Writes through the handle fail.
func Open(path string) (*Database, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat store: %w", err)
	}

	d, err := open(path)
	if err != nil {
		return nil, err
	}
	if _, err := d.db.Exec("PRAGMA query_only = ON"); err != nil {
		d.db.Close()
		return nil, fmt.Errorf("failed to make store read-only: %w", err)
	}
	return d, nil
}

// Create opens or creates a writable store at path and ensures the schema exists.
func Create(path string) (*Database, error) {
	d, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := d.initialize(); err != nil {
		d.db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an empty in-memory store with the schema (for testing).
func OpenInMemory() (*Database, error) {
	d, err := open(":memory:")
	if err != nil {
		return nil, err
	}
	if err := d.initialize(); err != nil {
		d.db.Close()
		return nil, err
	}
	return d, nil
}

func open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// One connection per handle: an exchange is sequential, PRAGMAs are
	// per-connection, and every connection to ":memory:" is a new database.
	db.SetMaxOpenConns(1)
	return &Database{db: db, path: path}, nil
}

func (d *Database) initialize() error {
	if _, err := d.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return nil
}

// DB returns the underlying sql.DB, for seeding stores in tests and tools.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Path returns the path the store was opened from.
func (d *Database) Path() string {
	return d.path
}

// QueryContext implements Gateway.
func (d *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

// Close closes the store.
func (d *Database) Close() error {
	return d.db.Close()
}

// TableCount is the row count of one store table.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Stats returns row counts for the main store tables.
func (d *Database) Stats(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(countedTables))
	for _, table := range countedTables {
		var n int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)
		if err := d.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}
