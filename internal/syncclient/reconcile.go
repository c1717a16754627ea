package syncclient

import (
	"context"
	"fmt"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/task"
)

const (
	// DefaultInterval is how often Run looks for pending work.
	DefaultInterval = 30 * time.Second
	// MaxBackoff caps the wait between attempts while the server is down.
	MaxBackoff = 5 * time.Minute
)

// Reconcile replays pending operations in list order. It stops at the first
// unreachable error and returns it together with what was achieved so far.
func (s *Syncer) Reconcile(ctx context.Context) (ReconcileResult, error) {
	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()

	var res ReconcileResult

	s.mu.Lock()
	budget := 2*len(s.entries) + 1
	s.mu.Unlock()

	for ; budget > 0; budget-- {
		if err := ctx.Err(); err != nil {
			return s.finish(res), err
		}

		s.mu.Lock()
		job, ok := s.nextPendingLocked()
		s.mu.Unlock()
		if !ok {
			break
		}

		oc, err := s.replay(ctx, job)
		if IsUnreachable(err) {
			return s.finish(res), fmt.Errorf("syncclient.Reconcile: %w", err)
		}
		switch oc {
		case outcomeSynced, outcomeRemoved:
			res.Synced++
		case outcomeConflict:
			res.Conflicts++
		}
	}

	if err := s.reconcilePreferences(ctx); err != nil {
		return s.finish(res), fmt.Errorf("syncclient.Reconcile: %w", err)
	}
	return s.finish(res), nil
}

func (s *Syncer) finish(res ReconcileResult) ReconcileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.Remaining = s.pendingCountLocked()
	return res
}

// nextPendingLocked claims the first pending record that has no call in
// flight.
func (s *Syncer) nextPendingLocked() (Entry, bool) {
	for i := range s.entries {
		e := &s.entries[i]
		if e.State == StatePending && !e.inflight {
			e.inflight = true
			return *e, true
		}
	}
	return Entry{}, false
}

func (s *Syncer) replay(ctx context.Context, job Entry) (outcome, error) {
	switch job.Op {
	case OpCreate:
		created, err := s.remote.CreateTask(ctx, createRequest(job.Task))
		s.mu.Lock()
		defer s.mu.Unlock()
		_, oc := s.settleCreateLocked(ctx, job.Task, created, err)
		return oc, err

	case OpUpdate:
		got, err := s.remote.UpdateTask(ctx, job.Task.ID, model.FullPatch(job.Task))
		s.mu.Lock()
		defer s.mu.Unlock()
		_, oc := s.settleUpdateLocked(ctx, job.Task, got, err)
		return oc, err

	case OpDelete:
		err := s.remote.DeleteTask(ctx, job.Task.ID)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.settleDeleteLocked(ctx, job.Task.ID, err), err

	default:
		// Pending with no operation cannot be replayed; park it as a conflict.
		s.mu.Lock()
		defer s.mu.Unlock()
		if i := s.indexLocked(job.Task.ID); i >= 0 {
			s.entries[i].inflight = false
			s.entries[i].State = StateConflict
			s.persistLocked(ctx)
		}
		return outcomeConflict, nil
	}
}

func (s *Syncer) reconcilePreferences(ctx context.Context) error {
	s.mu.Lock()
	if !s.prefsPending {
		s.mu.Unlock()
		return nil
	}
	prefs := s.prefs.Merge(nil)
	rev := s.prefsRev
	s.mu.Unlock()

	got, err := s.remote.UpdatePreferences(ctx, prefs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlePreferencesLocked(ctx, rev, got, err)
	if IsUnreachable(err) {
		return err
	}
	return nil
}

// ResolveConflict settles a record the server no longer has. keepLocal
// queues it to be created again; otherwise it is discarded.
func (s *Syncer) ResolveConflict(ctx context.Context, id string, keepLocal bool) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return task.ErrTaskNotFound
	}
	if s.entries[i].State != StateConflict {
		s.mu.Unlock()
		return ErrNotInConflict
	}

	if !keepLocal {
		s.removeLocked(i)
		s.persistLocked(ctx)
		s.mu.Unlock()
		return nil
	}

	s.entries[i].State, s.entries[i].Op = StatePending, OpCreate
	s.persistLocked(ctx)
	s.mu.Unlock()

	if _, err := s.Reconcile(ctx); err != nil && !IsUnreachable(err) {
		return err
	}
	return nil
}

// Run reconciles in the background until ctx ends. While the server is down
// the wait doubles up to MaxBackoff; a successful pass resets it.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxWait := MaxBackoff
	if interval > maxWait {
		maxWait = interval
	}

	wait := interval
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		wait = s.tick(ctx, wait, interval, maxWait)
		timer.Reset(wait)
	}
}

func (s *Syncer) tick(ctx context.Context, wait, interval, maxWait time.Duration) time.Duration {
	if !s.HasPending() {
		return interval
	}

	backoff := min(wait*2, maxWait)

	if err := s.remote.Health(ctx); err != nil {
		s.l.Warnf(ctx, "syncclient.Run: server down, next attempt in %s: %v", backoff, err)
		return backoff
	}

	res, err := s.Reconcile(ctx)
	if err != nil {
		s.l.Warnf(ctx, "syncclient.Run: reconcile stopped, next attempt in %s: %v", backoff, err)
		return backoff
	}
	s.l.Infof(ctx, "syncclient.Run: synced=%d conflicts=%d remaining=%d", res.Synced, res.Conflicts, res.Remaining)
	return interval
}
