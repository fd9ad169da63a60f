// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go translation
// of the SQLite C code. No C compiler needed, it works everywhere Go works.
//
// LAYOUT:
// DB owns the connection pool and the schema. Each entity gets its own small
// store type (SnippetStore, CategoryStore, ...) handed out by an accessor
// method, so every store can have its own Create/GetByID/List without the
// method names colliding on one struct:
//
//	db, _ := sqlite.New("data/datanest.db")
//	snippets := db.Snippets() // implements repository.SnippetRepository
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/datanest/internal/apperror"

	// BLANK IMPORT:
	// The sqlite package's init() registers itself with database/sql as the
	// driver named "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// DB wraps a sql.DB connection pool and hands out the per-entity stores.
type DB struct {
	conn *sql.DB
}

// querier is the subset of *sql.DB and *sql.Tx the stores need. Helpers that
// take a querier run unchanged inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/datanest.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests; lost on close)
//
// CONNECTION POOL AND PRAGMAS:
// PRAGMA foreign_keys is per connection, and sql.DB opens connections lazily.
// File databases therefore get their pragmas through the DSN so every pooled
// connection has them. An in-memory database is private to one connection, so
// the pool is pinned to exactly one; otherwise a second connection would see
// an empty database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if dbPath == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. snippet_tags relies on
	// ON DELETE CASCADE and snippets.category_id on ON DELETE SET NULL.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func dsn(dbPath string) string {
	if dbPath == memoryPath {
		return dbPath
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Snippets() *SnippetStore { return &SnippetStore{db: db} }
func (db *DB) Categories() *CategoryStore { return &CategoryStore{db: db} }
func (db *DB) Tags() *TagStore { return &TagStore{db: db} }
func (db *DB) Settings() *SettingsStore { return &SettingsStore{db: db} }
func (db *DB) AIQueries() *AIQueryStore { return &AIQueryStore{db: db} }

// withTx runs fn inside a transaction, committing if fn returns nil and
// rolling back otherwise.
//
// With an in-memory database the pool holds a single connection, so fn must
// only use tx. A query on db.conn would wait for the connection tx holds.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.StoreFailed("beginning transaction", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.StoreFailed("committing transaction", err)
	}
	return nil
}

// migrate creates the schema. Every statement is idempotent
// (CREATE ... IF NOT EXISTS), so it is safe on an existing database.
func (db *DB) migrate() error {
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("applying %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
