package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileStore persists the history as a single JSON document with a top-level
// "statuses" array. This is the default backend.
type FileStore struct {
	Path string
}

type document struct {
	Statuses []Record `json:"statuses"`
}

func (s *FileStore) Load(_ context.Context) ([]Record, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return doc.Statuses, nil
}

func (s *FileStore) Append(ctx context.Context, rec Record) error {
	recs, err := s.Load(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(document{Statuses: append(recs, rec)})
	if err != nil {
		return err
	}
	// Write-then-rename so a crash mid-write never truncates the history.
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
