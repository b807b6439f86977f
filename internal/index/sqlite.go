// Package index is an auxiliary, rebuildable sqlite read-index: indexed
// history and interaction-counter queries over the append-only payloads
// log the Json/ flat-file layout keeps as the system of record. This
// package never becomes authoritative — Rebuild can always regenerate it
// from scratch off internal/store, so the database file itself is safe to
// delete.
package index

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the sqlite connection backing the read-index.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if necessary) the read-index database at path in WAL
// mode.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
 return nil, fmt.Errorf("create index directory %q: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
 return nil, fmt.Errorf("open index db %q: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
 conn.Close()
 return nil, fmt.Errorf("ping index db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
 conn.Close()
 return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.runMigrations(); err != nil {
 conn.Close()
 return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn exposes the raw connection for ad-hoc queries in this package's
// sibling files.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

func (d *DB) runMigrations() error {
	if _, err := d.conn.Exec(`
 CREATE TABLE IF NOT EXISTS schema_migrations (
 version INTEGER PRIMARY KEY,
 applied_at TEXT NOT NULL DEFAULT (datetime('now'))
 )
	`); err != nil {
 return fmt.Errorf("create schema_migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
 return fmt.Errorf("read migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
 if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
 continue
 }
 var version int
 if _, err := fmt.Sscanf(entry.Name(), "%d", &version); err != nil {
 slog.Warn("skipping migration with unparseable version", "file", entry.Name())
 continue
 }

 var count int
 if err := d.conn.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
 return fmt.Errorf("check migration status for version %d: %w", version, err)
 }
 if count > 0 {
 continue
 }

 content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
 if err != nil {
 return fmt.Errorf("read migration %s: %w", entry.Name(), err)
 }

 tx, err := d.conn.Begin()
 if err != nil {
 return fmt.Errorf("begin transaction for migration %d: %w", version, err)
 }
 if _, err := tx.Exec(string(content)); err != nil {
 tx.Rollback()
 return fmt.Errorf("execute migration %s: %w", entry.Name(), err)
 }
 if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
 tx.Rollback()
 return fmt.Errorf("record migration %d: %w", version, err)
 }
 if err := tx.Commit(); err != nil {
 return fmt.Errorf("commit migration %d: %w", version, err)
 }
 slog.Info("index migration applied", "version", version, "file", entry.Name())
	}
	return nil
}
