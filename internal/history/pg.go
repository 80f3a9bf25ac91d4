package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps the history in Postgres for deployments that already run one.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPG(db *pgxpool.Pool) *PGStore { return &PGStore{DB: db} }

// Init creates the history table if it does not exist yet.
func (s *PGStore) Init(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS status_history (
			id BIGSERIAL PRIMARY KEY,
			status TEXT NOT NULL,
			last_updated TEXT NOT NULL,
			observed_at TIMESTAMPTZ NOT NULL,
			notified_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PGStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
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

func (s *PGStore) Append(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO status_history (status, last_updated, observed_at, notified_at)
		VALUES ($1, $2, $3, $4)
	`, rec.Status, rec.LastUpdated, rec.ObservedAt, rec.NotifiedAt)
	return err
}
