package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hanzi/internal/domain"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same helpers run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and initializes
// the schema. ":memory:" opens a private in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	inMemory := dbPath == ":memory:"
	if !inMemory {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS characters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	character TEXT UNIQUE,
	pinyin TEXT,
	meaning TEXT,
	level TEXT,
	tags TEXT,
	other TEXT,
	examples TEXT
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT
);

CREATE TABLE IF NOT EXISTS batches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	characters TEXT
);

CREATE TABLE IF NOT EXISTS "groups" (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	characters TEXT
);

CREATE TABLE IF NOT EXISTS tags (
	name TEXT PRIMARY KEY
);

INSERT OR IGNORE INTO settings (key, value) VALUES ('last_reviewed_character', '');
`

func (r *Repository) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing only if fn succeeds.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		// Primary result code only when extended codes are off.
		if code&0xff != sqlite3.SQLITE_CONSTRAINT {
			return false
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ============================================================================
// Tags
// ============================================================================

// deriveTags adds every tag name to the registry, ignoring names already
// present. The registry only grows.
func deriveTags(ctx context.Context, q querier, tags []string) error {
	for _, name := range domain.NormalizeTags(tags) {
		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to register tag %q: %w", name, err)
		}
	}
	return nil
}

func listTags(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

// ListTags returns every registered tag name
func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	return listTags(ctx, r.db)
}

// ============================================================================
// Settings
// ============================================================================

// GetSetting returns the value for key, or "" when the key was never set
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting %q: %w", key, err)
	}
	return nullToString(value), nil
}

func setSetting(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting %q: %w", key, err)
	}
	return nil
}

// SetSetting inserts or replaces the value for key
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	return setSetting(ctx, r.db, key, value)
}

func listSettings(ctx context.Context, q querier) (domain.Settings, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := domain.Settings{}
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = nullToString(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}
	return settings, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
