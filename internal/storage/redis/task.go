package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"leaflet/internal/model"
	"leaflet/internal/storage"
)

func (s *implStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	ids, err := s.rdb.LRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		s.l.Errorf(ctx, "%s order: %v", s.dsn("ListTasks"), err)
		return nil, storage.ErrFailedToList
	}

	tasks := []model.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}

	vals, err := s.rdb.HMGet(ctx, s.tasksKey, ids...).Result()
	if err != nil {
		s.l.Errorf(ctx, "%s hmget: %v", s.dsn("ListTasks"), err)
		return nil, storage.ErrFailedToList
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// order list and hash drifted; the hash wins
			s.l.Warnf(ctx, "%s: id %s in order list but not in hash", s.dsn("ListTasks"), ids[i])
			continue
		}
		var t model.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			s.l.Errorf(ctx, "%s decode %s: %v", s.dsn("ListTasks"), ids[i], err)
			return nil, storage.ErrFailedToList
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTask returns a zero-value Task when not found.
func (s *implStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	raw, err := s.rdb.HGet(ctx, s.tasksKey, id).Result()
	if errors.Is(err, goredis.Nil) {
		return model.Task{}, nil
	}
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("GetTask"), err)
		return model.Task{}, storage.ErrFailedToGet
	}

	var t model.Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		s.l.Errorf(ctx, "%s decode: %v", s.dsn("GetTask"), err)
		return model.Task{}, storage.ErrFailedToGet
	}
	return t, nil
}

func (s *implStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	raw, err := json.Marshal(task)
	if err != nil {
		return model.Task{}, storage.ErrFailedToInsert
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.tasksKey, task.ID, raw)
		pipe.RPush(ctx, s.orderKey, task.ID)
		return nil
	})
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("CreateTask"), err)
		return model.Task{}, storage.ErrFailedToInsert
	}
	return task, nil
}

func (s *implStore) UpdateTask(ctx context.Context, opt storage.UpdateTaskOptions) (model.Task, error) {
	var updated model.Task

	err := s.watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.HGet(ctx, s.tasksKey, opt.ID).Result()
		if errors.Is(err, goredis.Nil) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var current model.Task
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return err
		}
		updated = opt.Patch.Apply(current)

		next, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, s.tasksKey, opt.ID, next)
			return nil
		})
		return err
	}, s.tasksKey)

	if errors.Is(err, storage.ErrNotFound) {
		return model.Task{}, err
	}
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("UpdateTask"), err)
		return model.Task{}, storage.ErrFailedToUpdate
	}
	return updated, nil
}

func (s *implStore) DeleteTask(ctx context.Context, id string) error {
	err := s.watch(ctx, func(tx *goredis.Tx) error {
		exists, err := tx.HExists(ctx, s.tasksKey, id).Result()
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HDel(ctx, s.tasksKey, id)
			pipe.LRem(ctx, s.orderKey, 0, id)
			return nil
		})
		return err
	}, s.tasksKey, s.orderKey)

	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		s.l.Errorf(ctx, "%s: %v", s.dsn("DeleteTask"), err)
		return storage.ErrFailedToDelete
	}
	return nil
}
