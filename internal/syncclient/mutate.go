package syncclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/task"
)

type outcome int

const (
	outcomePending outcome = iota
	outcomeSynced
	outcomeRemoved
	outcomeConflict
)

// Add creates a task. It is visible immediately; the server id replaces the
// local one once the server confirms it. An unreachable server is not an
// error: the task stays pending until Reconcile.
func (s *Syncer) Add(ctx context.Context, text, category string, priority model.Priority) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, task.ErrTextRequired
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = model.DefaultCategory
	}
	if priority == "" {
		priority = model.DefaultPriority
	}
	if !priority.IsValid() {
		return model.Task{}, task.ErrInvalidPriority
	}

	local := model.Task{
		ID:        s.newLocalID(),
		Text:      text,
		Category:  category,
		Priority:  priority,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Rotation:  s.rotation(),
	}

	s.mu.Lock()
	s.entries = append(s.entries, Entry{Task: local, State: StatePending, Op: OpCreate, inflight: true})
	s.persistLocked(ctx)
	s.mu.Unlock()

	created, err := s.remote.CreateTask(ctx, createRequest(local))

	s.mu.Lock()
	defer s.mu.Unlock()

	out, oc := s.settleCreateLocked(ctx, local, created, err)
	if oc == outcomeConflict && errors.Is(err, ErrRejected) {
		// A fresh record the server refuses is not worth keeping around.
		if i := s.indexLocked(out.ID); i >= 0 {
			s.removeLocked(i)
			s.persistLocked(ctx)
		}
		return model.Task{}, err
	}
	return out, nil
}

// Toggle flips the completed flag of a task.
func (s *Syncer) Toggle(ctx context.Context, id string) (model.Task, error) {
	return s.mutate(ctx, id, func(t *model.Task) {
		t.Completed = !t.Completed
	})
}

// Edit merges patch into a task. Text, when present, is trimmed and must not
// be blank; priority, when present, must be valid.
func (s *Syncer) Edit(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return model.Task{}, task.ErrTextRequired
		}
		patch.Text = &text
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return model.Task{}, task.ErrInvalidPriority
	}
	return s.mutate(ctx, id, func(t *model.Task) {
		*t = patch.Apply(*t)
	})
}

func (s *Syncer) mutate(ctx context.Context, id string, apply func(t *model.Task)) (model.Task, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || !s.entries[i].Visible() {
		s.mu.Unlock()
		return model.Task{}, task.ErrTaskNotFound
	}

	e := &s.entries[i]
	apply(&e.Task)
	sent := e.Task

	send := false
	switch {
	case e.State == StateConflict, e.Op == OpCreate:
		// Unknown to the server; the change travels with the create.
	case e.inflight:
		e.State, e.Op = StatePending, OpUpdate
	default:
		e.State, e.Op, e.inflight = StatePending, OpUpdate, true
		send = true
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	if !send {
		return sent, nil
	}

	got, err := s.remote.UpdateTask(ctx, id, model.FullPatch(sent))

	s.mu.Lock()
	defer s.mu.Unlock()
	out, _ := s.settleUpdateLocked(ctx, sent, got, err)
	return out, nil
}

// Delete removes a task from the view at once. Records the server never
// saw are dropped outright; the rest wait for the remote delete.
func (s *Syncer) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || !s.entries[i].Visible() {
		s.mu.Unlock()
		return task.ErrTaskNotFound
	}

	e := &s.entries[i]
	switch {
	case e.State == StateConflict, e.Op == OpCreate && !e.inflight:
		s.removeLocked(i)
		s.persistLocked(ctx)
		s.mu.Unlock()
		return nil
	case e.inflight:
		e.State, e.Op = StatePending, OpDelete
		s.persistLocked(ctx)
		s.mu.Unlock()
		return nil
	}

	e.State, e.Op, e.inflight = StatePending, OpDelete, true
	s.persistLocked(ctx)
	s.mu.Unlock()

	err := s.remote.DeleteTask(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleDeleteLocked(ctx, id, err)
	return nil
}

// SetTheme stores the theme locally and pushes it to the server.
func (s *Syncer) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.IsValid() {
		return ErrInvalidTheme
	}
	update := model.Preferences{model.PreferenceTheme: string(theme)}

	s.mu.Lock()
	s.prefs = s.prefs.Merge(update)
	s.prefsPending = true
	s.prefsRev++
	rev := s.prefsRev
	s.persistLocked(ctx)
	s.mu.Unlock()

	got, err := s.remote.UpdatePreferences(ctx, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlePreferencesLocked(ctx, rev, got, err)
	return nil
}

// --- settle: fold a remote result back into the state; callers hold mu ---

func (s *Syncer) settleCreateLocked(ctx context.Context, sent, created model.Task, err error) (model.Task, outcome) {
	i := s.indexLocked(sent.ID)
	if i < 0 {
		if err == nil {
			s.l.Warnf(ctx, "syncclient.create: %s was dropped locally while the server created %s", sent.ID, created.ID)
		}
		return sent, outcomeRemoved
	}
	e := &s.entries[i]
	e.inflight = false
	defer s.persistLocked(ctx)

	switch {
	case err == nil:
		local := e.Task
		e.Task.ID = created.ID
		e.Task.CreatedAt = created.CreatedAt
		e.Task.Rotation = created.Rotation

		switch {
		case e.Op == OpDelete:
			return e.Task, outcomePending
		case sameContent(local, created):
			e.Task = created
			e.State, e.Op = StateSynced, OpNone
			return e.Task, outcomeSynced
		default:
			// Edited while the create was in flight.
			e.State, e.Op = StatePending, OpUpdate
			return e.Task, outcomePending
		}

	case IsUnreachable(err):
		s.l.Warnf(ctx, "syncclient.create: kept %s locally: %v", sent.ID, err)
		if e.Op == OpDelete {
			s.removeLocked(i)
			return sent, outcomeRemoved
		}
		e.State, e.Op = StatePending, OpCreate
		return e.Task, outcomePending

	default:
		s.l.Errorf(ctx, "syncclient.create: %s: %v", sent.ID, err)
		if e.Op == OpDelete {
			s.removeLocked(i)
			return sent, outcomeRemoved
		}
		e.State, e.Op = StateConflict, OpNone
		return e.Task, outcomeConflict
	}
}

func (s *Syncer) settleUpdateLocked(ctx context.Context, sent, got model.Task, err error) (model.Task, outcome) {
	i := s.indexLocked(sent.ID)
	if i < 0 {
		return sent, outcomeRemoved
	}
	e := &s.entries[i]
	e.inflight = false
	defer s.persistLocked(ctx)

	switch {
	case err == nil:
		if e.Op == OpUpdate && sameContent(e.Task, sent) {
			e.Task = got
			e.State, e.Op = StateSynced, OpNone
			return e.Task, outcomeSynced
		}
		return e.Task, outcomePending

	case errors.Is(err, ErrNotFound):
		if e.Op == OpDelete {
			s.removeLocked(i)
			return sent, outcomeRemoved
		}
		s.l.Warnf(ctx, "syncclient.update: %s is gone from the server", sent.ID)
		e.State, e.Op = StateConflict, OpNone
		return e.Task, outcomeConflict

	case IsUnreachable(err):
		s.l.Warnf(ctx, "syncclient.update: kept %s locally: %v", sent.ID, err)
		return e.Task, outcomePending

	default:
		s.l.Errorf(ctx, "syncclient.update: %s: %v", sent.ID, err)
		e.State, e.Op = StateConflict, OpNone
		return e.Task, outcomeConflict
	}
}

func (s *Syncer) settleDeleteLocked(ctx context.Context, id string, err error) outcome {
	i := s.indexLocked(id)
	if i < 0 {
		return outcomeRemoved
	}
	e := &s.entries[i]
	e.inflight = false
	defer s.persistLocked(ctx)

	switch {
	case err == nil, errors.Is(err, ErrNotFound):
		s.removeLocked(i)
		return outcomeRemoved
	case IsUnreachable(err):
		s.l.Warnf(ctx, "syncclient.delete: %s stays pending: %v", id, err)
		return outcomePending
	default:
		s.l.Errorf(ctx, "syncclient.delete: %s: %v", id, err)
		e.State, e.Op = StateConflict, OpNone
		return outcomeConflict
	}
}

func (s *Syncer) settlePreferencesLocked(ctx context.Context, rev int, got model.Preferences, err error) {
	defer s.persistLocked(ctx)

	switch {
	case err == nil:
		if rev == s.prefsRev {
			s.prefs = got
			s.prefsPending = false
		}
	case IsUnreachable(err):
		s.l.Warnf(ctx, "syncclient.preferences: kept locally: %v", err)
	default:
		s.l.Errorf(ctx, "syncclient.preferences: %v", err)
		if rev == s.prefsRev {
			s.prefsPending = false
		}
	}
}

func createRequest(t model.Task) CreateRequest {
	return CreateRequest{Text: t.Text, Category: t.Category, Priority: t.Priority}
}
