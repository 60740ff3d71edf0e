// Package journal persists a record of pipeline runs in Postgres. The journal
// is optional: a nil *Journal records nothing and never errors.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one pipeline run.
type Entry struct {
	ID       string
	Input    string
	Metadata string
	Status   string
	Error    string
	Duration time.Duration
	Created  time.Time
}

// Journal writes run entries to a Postgres table.
type Journal struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres. An empty URL yields a nil journal, which is a
// valid no-op recorder.
func Open(ctx context.Context, databaseURL string) (*Journal, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Journal{pool: pool}, nil
}

// Init creates the runs table when it does not exist yet.
func (j *Journal) Init(ctx context.Context) error {
	if j == nil {
		return nil
	}
	_, err := j.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			input       TEXT NOT NULL,
			metadata    TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			duration_ms BIGINT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// Record inserts one run entry.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j == nil {
		return nil
	}
	_, err := j.pool.Exec(ctx,
		"INSERT INTO runs (id, input, metadata, status, error, duration_ms) VALUES ($1, $2, $3, $4, $5, $6)",
		e.ID, e.Input, e.Metadata, e.Status, e.Error, e.Duration.Milliseconds())
	return err
}

// Recent returns the latest entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.pool.Query(ctx,
		"SELECT id, input, metadata, status, error, duration_ms, created_at FROM runs ORDER BY created_at DESC LIMIT $1",
		limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.Input, &e.Metadata, &e.Status, &e.Error, &durationMs, &e.Created); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (j *Journal) Close() {
	if j != nil {
		j.pool.Close()
	}
}
