package webhook

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS webhook_records (
	id          TEXT PRIMARY KEY,
	webhook_id  TEXT NOT NULL,
	received_at TEXT NOT NULL,
	payload     BLOB NOT NULL
)`

// SQLiteSink persists relayed records so they survive restarts of the host
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (or creates) the database at dsn
func OpenSQLiteSink(ctx context.Context, dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open webhook db: %w", err)
	}
	// all access goes through a single connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping webhook db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRecordsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create webhook_records: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Emit inserts rec. Timestamps are stored as RFC3339Nano text.
func (s *SQLiteSink) Emit(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO webhook_records (id, webhook_id, received_at, payload) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.WebhookID, rec.ReceivedAt.UTC().Format(time.RFC3339Nano), []byte(rec.Payload))
	if err != nil {
		return fmt.Errorf("insert webhook record %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, oldest first
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultMemoryCapacity
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, webhook_id, received_at, payload FROM (
			SELECT rowid, id, webhook_id, received_at, payload FROM webhook_records
			ORDER BY rowid DESC LIMIT ?
		) ORDER BY rowid ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query webhook records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec        Record
			receivedAt string
			payload    []byte
		)
		if err := rows.Scan(&rec.ID, &rec.WebhookID, &receivedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan webhook record: %w", err)
		}
		rec.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("parse received_at %q: %w", receivedAt, err)
		}
		rec.Payload = payload
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
