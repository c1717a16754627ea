package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"leaflet/internal/model"
	"leaflet/internal/storage"
)

func decodePreferences(raw map[string]string) (model.Preferences, error) {
	prefs := model.Preferences{}
	for k, v := range raw {
		var val any
		if err := json.Unmarshal([]byte(v), &val); err != nil {
			return nil, fmt.Errorf("decode preference %q: %w", k, err)
		}
		prefs[k] = val
	}
	return prefs, nil
}

func (s *implStore) GetPreferences(ctx context.Context) (model.Preferences, error) {
	raw, err := s.rdb.HGetAll(ctx, s.prefsKey).Result()
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("GetPreferences"), err)
		return nil, storage.ErrFailedToGet
	}
	prefs, err := decodePreferences(raw)
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("GetPreferences"), err)
		return nil, storage.ErrFailedToGet
	}
	return prefs, nil
}

func (s *implStore) MergePreferences(ctx context.Context, updates model.Preferences) (model.Preferences, error) {
	if len(updates) == 0 {
		return s.GetPreferences(ctx)
	}

	fields := make([]any, 0, len(updates)*2)
	for k, v := range updates {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode preference %q: %w", k, err)
		}
		fields = append(fields, k, string(raw))
	}

	var all *goredis.MapStringStringCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.prefsKey, fields...)
		all = pipe.HGetAll(ctx, s.prefsKey)
		return nil
	})
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("MergePreferences"), err)
		return nil, storage.ErrFailedToUpdate
	}

	prefs, err := decodePreferences(all.Val())
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("MergePreferences"), err)
		return nil, storage.ErrFailedToUpdate
	}
	return prefs, nil
}
