// Package storage persists oracle observations in SQLite.
// Writes are append-only inserts; reads are full scans ordered by
// timestamp ascending.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trindadeeesx/nexus/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS observations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	event_type TEXT NOT NULL,
	source TEXT NOT NULL,
	action_type TEXT NOT NULL,
	target TEXT NOT NULL,
	confidence REAL NOT NULL,
	priority INTEGER NOT NULL,
	result TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}'
)`

// DB is the observation store.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path with WAL
// journal mode and a 5-second busy timeout, and ensures the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}

	return &DB{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveObservation appends one record. Metadata is stored as JSON text so
// analyzer detectors that read it survive a restart.
func (d *DB) SaveObservation(ctx context.Context, rec model.OracleRecord) error {
	meta := rec.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("storage: encode metadata: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO observations (ts, event_type, source, action_type, target, confidence, priority, result, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TS.UTC().Format(time.RFC3339Nano),
		string(rec.EventType),
		rec.Source,
		string(rec.ActionType),
		rec.Target,
		rec.Confidence,
		rec.Priority,
		string(rec.Result),
		string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("storage: insert observation: %w", err)
	}
	return nil
}

// LoadObservations returns records ordered by timestamp ascending.
// A non-positive limit returns the full history.
func (d *DB) LoadObservations(ctx context.Context, limit int) ([]model.OracleRecord, error) {
	query := `
		SELECT ts, event_type, source, action_type, target, confidence, priority, result, metadata
		FROM observations
		ORDER BY ts ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: load observations: %w", err)
	}
	defer rows.Close()

	var recs []model.OracleRecord
	for rows.Next() {
		var (
			rec      model.OracleRecord
			ts       string
			metaJSON string
		)
		if err := rows.Scan(&ts, &rec.EventType, &rec.Source, &rec.ActionType, &rec.Target,
			&rec.Confidence, &rec.Priority, &rec.Result, &metaJSON); err != nil {
			return nil, fmt.Errorf("storage: scan observation: %w", err)
		}

		rec.TS, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("storage: parse ts %q: %w", ts, err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("storage: decode metadata: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate observations: %w", err)
	}
	return recs, nil
}
