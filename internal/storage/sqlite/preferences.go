package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"leaflet/internal/model"
	"leaflet/internal/storage"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readPreferences(ctx context.Context, q querier) (model.Preferences, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := model.Preferences{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode preference %q: %w", key, err)
		}
		prefs[key] = v
	}
	return prefs, rows.Err()
}

func (s *implStore) GetPreferences(ctx context.Context) (model.Preferences, error) {
	prefs, err := readPreferences(ctx, s.db)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("GetPreferences"), err)
		return nil, storage.ErrFailedToGet
	}
	return prefs, nil
}

func (s *implStore) MergePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.l.Errorf(ctx, "%s begin: %v", s.dsn("MergePreferences"), err)
		return nil, storage.ErrFailedToUpdate
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for key, v := range updates {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode preference %q: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, upsert, key, string(raw)); err != nil {
			s.l.Errorf(ctx, "%s upsert %s: %v", s.dsn("MergePreferences"), key, err)
			return nil, storage.ErrFailedToUpdate
		}
	}

	merged, err := readPreferences(ctx, tx)
	if err != nil {
		s.l.Errorf(ctx, "%s read back: %v", s.dsn("MergePreferences"), err)
		return nil, storage.ErrFailedToUpdate
	}
	if err := tx.Commit(); err != nil {
		s.l.Errorf(ctx, "%s commit: %v", s.dsn("MergePreferences"), err)
		return nil, storage.ErrFailedToUpdate
	}
	return merged, nil
}
