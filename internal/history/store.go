package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Record is one persisted status observation. The JSON keys match the
// original status_record.json layout. Records are appended and never
// rewritten; only the last one drives decisions, the rest is audit trail.
type Record struct {
	Status      string    `json:"status"`
	LastUpdated string    `json:"last_updated"`
	ObservedAt  time.Time `json:"date"`
	NotifiedAt  time.Time `json:"last_sent"`
}

// offsetlessLayout matches timestamps written by older history files, ISO
// shaped but with no UTC offset. Those were local time when written.
const offsetlessLayout = "2006-01-02T15:04:05.999999999"

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status      string `json:"status"`
		LastUpdated string `json:"last_updated"`
		ObservedAt  string `json:"date"`
		NotifiedAt  string `json:"last_sent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	observed, err := parseRecordTime(raw.ObservedAt)
	if err != nil {
		return fmt.Errorf("record date: %w", err)
	}
	notified, err := parseRecordTime(raw.NotifiedAt)
	if err != nil {
		return fmt.Errorf("record last_sent: %w", err)
	}
	*r = Record{
		Status:      raw.Status,
		LastUpdated: raw.LastUpdated,
		ObservedAt:  observed,
		NotifiedAt:  notified,
	}
	return nil
}

// parseRecordTime accepts the RFC3339 timestamps this program writes and the
// offset-less ones migrated files carry. Absent is not an error; it maps to
// the zero time and the resend-clock fallback.
func parseRecordTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(offsetlessLayout, s, time.Local)
}

// NotifiedOrObserved returns the resend-window anchor: NotifiedAt when set,
// otherwise ObservedAt for records written before last_sent existed.
func (r Record) NotifiedOrObserved() time.Time {
	if r.NotifiedAt.IsZero() {
		return r.ObservedAt
	}
	return r.NotifiedAt
}

// Store is the append-only status history. Load returns an empty sequence
// when nothing has been persisted yet; that is not an error. Single writer
// assumed.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, rec Record) error
}
