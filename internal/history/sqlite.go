package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS status_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status TEXT NOT NULL,
	last_updated TEXT NOT NULL,
	observed_at TIMESTAMP NOT NULL,
	notified_at TIMESTAMP NOT NULL
);`

// SQLiteStore keeps the history in a local SQLite database for deployments
// that want queryable audit history without a separate server.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, last_updated, observed_at, notified_at
		FROM status_history ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Status, &r.LastUpdated, &r.ObservedAt, &r.NotifiedAt); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO status_history (status, last_updated, observed_at, notified_at)
		VALUES (?, ?, ?, ?)
	`, rec.Status, rec.LastUpdated, rec.ObservedAt, rec.NotifiedAt)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
