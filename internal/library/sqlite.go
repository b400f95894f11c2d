package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS library_entries (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    map_ref    TEXT NOT NULL,
    content    BLOB NOT NULL,
    updated_at TEXT NOT NULL
)`

// OpenSQLite opens (creating if needed) the sqlite database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore runs the schema migration and returns a store over db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("migrate library: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, content []byte) (*Entry, error) {
	entry, err := newEntry(id, content, s.now())
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO library_entries (id, name, map_ref, content, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            map_ref = excluded.map_ref,
            content = excluded.content,
            updated_at = excluded.updated_at
    `, entry.ID, entry.Name, entry.MapRef, []byte(entry.Content), entry.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("put library entry: %w", err)
	}
	entry.Content = nil
	return entry, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, map_ref, content, updated_at
        FROM library_entries
        WHERE id = ?
    `, id)

	var (
		e       Entry
		content []byte
		updated string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.MapRef, &content, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get library entry: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	e.UpdatedAt = t
	e.Content = content
	return &e, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, map_ref, updated_at FROM library_entries`)
	if err != nil {
		return nil, fmt.Errorf("list library entries: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			updated string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.MapRef, &updated); err != nil {
			return nil, fmt.Errorf("scan library entry: %w", err)
		}
		if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortEntries(out)
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM library_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete library entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
