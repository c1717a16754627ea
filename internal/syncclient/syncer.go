// Package syncclient keeps a client-side task list in step with the Leaflet
// API. Mutations apply locally first, are written to a durable cache and are
// then pushed to the server; whatever the server could not take is replayed
// by Reconcile once it is reachable again.
package syncclient

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leaflet/internal/model"
	"leaflet/pkg/log"
)

// LocalIDPrefix marks ids minted by the client for records the server has
// not confirmed yet.
const LocalIDPrefix = "local-"

// AllCategories is the pseudo category that matches every task.
const AllCategories = "all"

// Syncer owns the in-memory task list and preferences.
type Syncer struct {
	// mu guards the state below. It is never held across a remote call.
	mu           sync.Mutex
	entries      []Entry
	prefs        model.Preferences
	prefsPending bool
	prefsRev     int

	// reconcileMu keeps reconciliation passes from overlapping.
	reconcileMu sync.Mutex

	remote Remote
	cache  *Cache
	l      log.Logger

	now        func() time.Time
	newLocalID func() string
	rotation   func() int
}

// New creates a Syncer. Call Load before using it.
func New(remote Remote, cache *Cache, l log.Logger) *Syncer {
	return &Syncer{
		prefs:      model.DefaultPreferences(),
		remote:     remote,
		cache:      cache,
		l:          l,
		now:        time.Now,
		newLocalID: newLocalID,
		rotation:   func() int { return rand.IntN(20) - 10 },
	}
}

func newLocalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return LocalIDPrefix + uuid.NewString()
	}
	return LocalIDPrefix + id.String()
}

// IsLocalID reports whether id was minted by the client.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// Load fills the syncer from the server, falling back to the local cache
// when the server cannot be reached. Records still pending in the cache are
// laid over the server list and then replayed.
func (s *Syncer) Load(ctx context.Context) (LoadResult, error) {
	doc := s.cache.Load(ctx)

	remoteTasks, err := s.remote.ListTasks(ctx)
	if err != nil {
		s.l.Warnf(ctx, "syncclient.Load: using cached tasks: %v", err)

		s.mu.Lock()
		s.entries = doc.Tasks
		s.prefs = doc.Preferences
		s.prefsPending = doc.PreferencesPending
		n := s.visibleCountLocked()
		s.mu.Unlock()

		return LoadResult{Online: false, Tasks: n}, nil
	}

	prefs := doc.Preferences
	if !doc.PreferencesPending {
		if p, pErr := s.remote.GetPreferences(ctx); pErr == nil {
			prefs = p
		} else {
			s.l.Warnf(ctx, "syncclient.Load: using cached preferences: %v", pErr)
		}
	}

	s.mu.Lock()
	s.entries = overlay(remoteTasks, doc.Tasks)
	s.prefs = prefs
	s.prefsPending = doc.PreferencesPending
	s.persistLocked(ctx)
	s.mu.Unlock()

	if _, err := s.Reconcile(ctx); err != nil {
		s.l.Warnf(ctx, "syncclient.Load: reconcile stopped: %v", err)
	}

	s.mu.Lock()
	n := s.visibleCountLocked()
	s.mu.Unlock()
	return LoadResult{Online: true, Tasks: n}, nil
}

// overlay merges the unsynced part of the cache into a fresh server list.
func overlay(remote []model.Task, cached []Entry) []Entry {
	out := make([]Entry, 0, len(remote))
	idx := make(map[string]int, len(remote))
	for _, t := range remote {
		idx[t.ID] = len(out)
		out = append(out, Entry{Task: t, State: StateSynced})
	}

	for _, c := range cached {
		if c.State == StateSynced {
			continue
		}
		i, onServer := idx[c.Task.ID]
		switch {
		case c.Op == OpCreate:
			if !onServer {
				out = append(out, c)
			}
		case c.State == StateConflict:
			if onServer {
				out[i] = c
			} else {
				out = append(out, c)
			}
		case !onServer:
			// The server dropped it while we were away. A pending delete is
			// already satisfied; a pending update has nothing to land on.
			if c.Op == OpUpdate {
				c.State, c.Op = StateConflict, OpNone
				out = append(out, c)
			}
		default:
			out[i] = c
		}
	}
	return out
}

// Tasks returns the visible tasks in display order.
func (s *Syncer) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Visible() {
			out = append(out, e.Task)
		}
	}
	return out
}

// Entries returns every visible record with its sync state.
func (s *Syncer) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Visible() {
			e.inflight = false
			out = append(out, e)
		}
	}
	return out
}

// Filter returns visible tasks whose text contains search (case-insensitive)
// and whose category matches. An empty or "all" category matches everything.
func (s *Syncer) Filter(search, category string) []model.Task {
	search = strings.ToLower(strings.TrimSpace(search))
	matchAll := category == "" || category == AllCategories

	var out []model.Task
	for _, t := range s.Tasks() {
		if !matchAll && t.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Text), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories lists "all" followed by each category in first-seen order.
func (s *Syncer) Categories() []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, t := range s.Tasks() {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// Stats counts the visible tasks.
func (s *Syncer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	for _, e := range s.entries {
		if !e.Visible() {
			continue
		}
		st.Total++
		if e.Task.Completed {
			st.Completed++
		}
		switch e.State {
		case StatePending:
			st.Pending++
		case StateConflict:
			st.Conflicts++
		}
	}
	st.Remaining = st.Total - st.Completed
	return st
}

// HasPending reports whether anything still has to reach the server.
func (s *Syncer) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefsPending || s.pendingCountLocked() > 0
}

// Theme returns the current theme.
func (s *Syncer) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Theme()
}

// Preferences returns a copy of the preferences document.
func (s *Syncer) Preferences() model.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Merge(nil)
}

// --- helpers; callers hold mu ---

func (s *Syncer) indexLocked(id string) int {
	for i := range s.entries {
		if s.entries[i].Task.ID == id {
			return i
		}
	}
	return -1
}

func (s *Syncer) removeLocked(i int) {
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
}

func (s *Syncer) visibleCountLocked() int {
	n := 0
	for _, e := range s.entries {
		if e.Visible() {
			n++
		}
	}
	return n
}

func (s *Syncer) pendingCountLocked() int {
	n := 0
	for _, e := range s.entries {
		if e.State == StatePending {
			n++
		}
	}
	return n
}

// persistLocked writes the current state to the cache. A failed write is
// logged; the in-memory state stays authoritative.
func (s *Syncer) persistLocked(ctx context.Context) {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)

	doc := Document{
		Tasks:              entries,
		Preferences:        s.prefs.Merge(nil),
		PreferencesPending: s.prefsPending,
	}
	if err := s.cache.Save(doc); err != nil {
		s.l.Errorf(ctx, "syncclient.persist: %v", err)
	}
}

// sameContent compares the fields a user can change.
func sameContent(a, b model.Task) bool {
	return a.Text == b.Text &&
		a.Category == b.Category &&
		a.Priority == b.Priority &&
		a.Completed == b.Completed
}
