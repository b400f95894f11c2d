package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS library_entries (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    map_ref    TEXT NOT NULL,
    content    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("migrate library: %w", err)
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, content []byte) (*Entry, error) {
	entry, err := newEntry(id, content, s.now())
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx, `
        INSERT INTO library_entries (id, name, map_ref, content, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            map_ref = EXCLUDED.map_ref,
            content = EXCLUDED.content,
            updated_at = EXCLUDED.updated_at
    `, entry.ID, entry.Name, entry.MapRef, []byte(entry.Content), entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("put library entry: %w", err)
	}
	entry.Content = nil
	return entry, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Entry, error) {
	var (
		e       Entry
		content []byte
	)
	err := s.pool.QueryRow(ctx, `
        SELECT id, name, map_ref, content, updated_at
        FROM library_entries
        WHERE id = $1
    `, id).Scan(&e.ID, &e.Name, &e.MapRef, &content, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get library entry: %w", err)
	}
	e.Content = content
	return &e, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, name, map_ref, updated_at
        FROM library_entries
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list library entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Name, &e.MapRef, &e.UpdatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan library entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM library_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete library entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
