package syncclient

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/task"
)

func TestLoadOnline(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	if _, err := ts.store.CreateTask(ctx, model.Task{ID: "1", Text: "from server", Category: "work", Priority: model.PriorityLow}); err != nil {
		t.Fatal(err)
	}

	s := New(NewRemoteClient(ts.URL, time.Second), NewCache(filepath.Join(t.TempDir(), "c.json"), nopLogger()), nopLogger())
	res, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Online || res.Tasks != 1 {
		t.Fatalf("unexpected load result %+v", res)
	}
	if e := entryFor(t, s, "1"); e.State != StateSynced {
		t.Errorf("expected synced, got %s", e.State)
	}
}

func TestLoadOfflineUsesCache(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	cache := filepath.Join(t.TempDir(), "cache.json")

	first := newTestSyncer(t, ts, cache)
	if _, err := first.Add(ctx, "cached", "", ""); err != nil {
		t.Fatal(err)
	}

	ts.down.Store(true)
	second := New(NewRemoteClient(ts.URL, time.Second), NewCache(cache, nopLogger()), nopLogger())
	res, err := second.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Online {
		t.Error("expected offline load")
	}
	tasks := second.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "cached" {
		t.Fatalf("expected cached task, got %+v", tasks)
	}
}

func TestAddOnlineAdoptsServerID(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")

	got, err := s.Add(context.Background(), "  buy milk  ", "shopping", model.PriorityHigh)
	if err != nil {
		t.Fatal(err)
	}
	if IsLocalID(got.ID) {
		t.Fatalf("expected server id, got %s", got.ID)
	}
	if got.Text != "buy milk" {
		t.Errorf("expected trimmed text, got %q", got.Text)
	}
	if e := entryFor(t, s, got.ID); e.State != StateSynced {
		t.Errorf("expected synced, got %s", e.State)
	}
	if tasks := ts.serverTasks(t); len(tasks) != 1 || tasks[0].ID != got.ID {
		t.Errorf("server out of step: %+v", tasks)
	}
}

func TestAddValidation(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	if _, err := s.Add(ctx, "   ", "", ""); !errors.Is(err, task.ErrTextRequired) {
		t.Errorf("expected ErrTextRequired, got %v", err)
	}
	if _, err := s.Add(ctx, "x", "", "urgent"); !errors.Is(err, task.ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
	if len(s.Tasks()) != 0 || len(ts.serverTasks(t)) != 0 {
		t.Error("invalid adds must not create anything")
	}
}

func TestAddOfflineThenReconcile(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	ts.down.Store(true)
	local, err := s.Add(ctx, "offline", "", "")
	if err != nil {
		t.Fatalf("unreachable server must not surface: %v", err)
	}
	if !IsLocalID(local.ID) {
		t.Fatalf("expected local id, got %s", local.ID)
	}
	if e := entryFor(t, s, local.ID); e.State != StatePending || e.Op != OpCreate {
		t.Fatalf("expected pending create, got %+v", e)
	}

	if _, err := s.Reconcile(ctx); !IsUnreachable(err) {
		t.Fatalf("expected unreachable while down, got %v", err)
	}

	ts.down.Store(false)
	res, err := s.Reconcile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Synced != 1 || res.Remaining != 0 {
		t.Errorf("unexpected result %+v", res)
	}

	tasks := s.Tasks()
	if len(tasks) != 1 || IsLocalID(tasks[0].ID) {
		t.Fatalf("expected adopted server id, got %+v", tasks)
	}
	server := ts.serverTasks(t)
	if len(server) != 1 || server[0].ID != tasks[0].ID {
		t.Errorf("server out of step: %+v", server)
	}
}

func TestEditsOnPendingCreateAreReplayed(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	ts.down.Store(true)
	local, _ := s.Add(ctx, "draft", "", "")
	text := "final"
	if _, err := s.Edit(ctx, local.ID, model.TaskPatch{Text: &text}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Toggle(ctx, local.ID); err != nil {
		t.Fatal(err)
	}

	ts.down.Store(false)
	if _, err := s.Reconcile(ctx); err != nil {
		t.Fatal(err)
	}

	server := ts.serverTasks(t)
	if len(server) != 1 || server[0].Text != "final" || !server[0].Completed {
		t.Fatalf("expected edited completed task on server, got %+v", server)
	}
	if s.HasPending() {
		t.Error("nothing should be pending")
	}
}

func TestToggleOfflineReplayed(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	created, _ := s.Add(ctx, "walk", "", "")

	ts.down.Store(true)
	got, err := s.Toggle(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Fatal("toggle must apply locally")
	}
	if e := entryFor(t, s, created.ID); e.State != StatePending || e.Op != OpUpdate {
		t.Fatalf("expected pending update, got %+v", e)
	}

	ts.down.Store(false)
	if _, err := s.Reconcile(ctx); err != nil {
		t.Fatal(err)
	}
	if server := ts.serverTasks(t); !server[0].Completed {
		t.Error("toggle not replayed")
	}
}

func TestEditValidation(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	created, _ := s.Add(ctx, "x", "", "")
	blank := "  "
	if _, err := s.Edit(ctx, created.ID, model.TaskPatch{Text: &blank}); !errors.Is(err, task.ErrTextRequired) {
		t.Errorf("expected ErrTextRequired, got %v", err)
	}
	if _, err := s.Toggle(ctx, "nope"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateMissingOnServerBecomesConflict(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	created, _ := s.Add(ctx, "orphan", "", "")
	if err := ts.store.DeleteTask(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Toggle(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if e := entryFor(t, s, created.ID); e.State != StateConflict {
		t.Fatalf("expected conflict, got %+v", e)
	}
	if st := s.Stats(); st.Conflicts != 1 {
		t.Errorf("expected one conflict, got %+v", st)
	}

	if err := s.ResolveConflict(ctx, created.ID, true); err != nil {
		t.Fatal(err)
	}
	server := ts.serverTasks(t)
	if len(server) != 1 || server[0].Text != "orphan" || !server[0].Completed {
		t.Fatalf("expected task recreated on server, got %+v", server)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != server[0].ID {
		t.Errorf("expected local copy to adopt new id, got %+v", tasks)
	}
}

func TestResolveConflictDrop(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	created, _ := s.Add(ctx, "orphan", "", "")
	_ = ts.store.DeleteTask(ctx, created.ID)
	_, _ = s.Toggle(ctx, created.ID)

	if err := s.ResolveConflict(ctx, created.ID, false); err != nil {
		t.Fatal(err)
	}
	if len(s.Tasks()) != 0 {
		t.Error("dropped conflict must disappear")
	}

	other, _ := s.Add(ctx, "fine", "", "")
	if err := s.ResolveConflict(ctx, other.ID, false); !errors.Is(err, ErrNotInConflict) {
		t.Errorf("expected ErrNotInConflict, got %v", err)
	}
}

func TestDeleteMissingOnServerDropsLocally(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	created, _ := s.Add(ctx, "gone", "", "")
	_ = ts.store.DeleteTask(ctx, created.ID)

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Tasks()) != 0 || s.HasPending() {
		t.Error("expected record dropped with nothing pending")
	}
}

func TestDeleteOfflineReplayed(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	created, _ := s.Add(ctx, "later", "", "")

	ts.down.Store(true)
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Tasks()) != 0 {
		t.Error("deleted task must leave the view at once")
	}
	if !s.HasPending() {
		t.Error("delete should be pending")
	}

	ts.down.Store(false)
	if _, err := s.Reconcile(ctx); err != nil {
		t.Fatal(err)
	}
	if len(ts.serverTasks(t)) != 0 {
		t.Error("delete not replayed")
	}
}

func TestDeleteLocalOnlyNeverReachesServer(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	ts.down.Store(true)
	local, _ := s.Add(ctx, "scratch", "", "")
	if err := s.Delete(ctx, local.ID); err != nil {
		t.Fatal(err)
	}

	ts.down.Store(false)
	res, err := s.Reconcile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Synced != 0 || len(ts.serverTasks(t)) != 0 {
		t.Errorf("local-only delete leaked to the server: %+v", res)
	}
}

func TestLoadReplaysCachedPendingWork(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	cache := filepath.Join(t.TempDir(), "cache.json")

	first := newTestSyncer(t, ts, cache)
	ts.down.Store(true)
	if _, err := first.Add(ctx, "written offline", "", ""); err != nil {
		t.Fatal(err)
	}

	ts.down.Store(false)
	second := newTestSyncer(t, ts, cache)

	server := ts.serverTasks(t)
	if len(server) != 1 || server[0].Text != "written offline" {
		t.Fatalf("expected cached create replayed, got %+v", server)
	}
	tasks := second.Tasks()
	if len(tasks) != 1 || tasks[0].ID != server[0].ID {
		t.Errorf("expected one synced task, got %+v", tasks)
	}
}

func TestThemeOfflineReplayed(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	if s.Theme() != model.ThemeLight {
		t.Fatalf("expected light default, got %s", s.Theme())
	}
	if err := s.SetTheme(ctx, "blue"); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("expected ErrInvalidTheme, got %v", err)
	}

	ts.down.Store(true)
	if err := s.SetTheme(ctx, model.ThemeDark); err != nil {
		t.Fatal(err)
	}
	if s.Theme() != model.ThemeDark || !s.HasPending() {
		t.Fatal("theme must apply locally and stay pending")
	}

	ts.down.Store(false)
	if _, err := s.Reconcile(ctx); err != nil {
		t.Fatal(err)
	}
	prefs, _ := ts.store.GetPreferences(ctx)
	if prefs.Theme() != model.ThemeDark {
		t.Errorf("theme not replayed, server has %v", prefs)
	}
	if s.HasPending() {
		t.Error("preferences should be synced")
	}
}

func TestFilterCategoriesStats(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")
	ctx := context.Background()

	a, _ := s.Add(ctx, "Buy Milk", "shopping", "")
	_, _ = s.Add(ctx, "write report", "work", "")
	_, _ = s.Add(ctx, "buy stamps", "", "")
	_, _ = s.Toggle(ctx, a.ID)

	if got := s.Filter("buy", ""); len(got) != 2 {
		t.Errorf("expected 2 matches for buy, got %d", len(got))
	}
	if got := s.Filter("BUY", "shopping"); len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("unexpected filter result %+v", got)
	}
	if got := s.Filter("", AllCategories); len(got) != 3 {
		t.Errorf("expected all tasks, got %d", len(got))
	}

	cats := s.Categories()
	want := []string{"all", "shopping", "work", "general"}
	if len(cats) != len(want) {
		t.Fatalf("expected %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("categories[%d]: expected %s, got %s", i, want[i], cats[i])
		}
	}

	st := s.Stats()
	if st.Total != 3 || st.Completed != 1 || st.Remaining != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestRunReconcilesAfterRecovery(t *testing.T) {
	ts := newTestServer(t)
	s := newTestSyncer(t, ts, "")

	ts.down.Store(true)
	if _, err := s.Add(context.Background(), "eventually", "", ""); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 10*time.Millisecond) }()

	time.Sleep(50 * time.Millisecond)
	ts.down.Store(false)

	deadline := time.Now().Add(3 * time.Second)
	for s.HasPending() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.HasPending() {
		t.Fatal("Run did not reconcile after the server came back")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
	if len(ts.serverTasks(t)) != 1 {
		t.Error("expected the task on the server")
	}
}

func TestOverlay(t *testing.T) {
	remote := []model.Task{{ID: "a", Text: "server a"}, {ID: "b", Text: "server b"}}
	cached := []Entry{
		{Task: model.Task{ID: "a", Text: "stale"}, State: StateSynced},
		{Task: model.Task{ID: "b", Text: "local edit"}, State: StatePending, Op: OpUpdate},
		{Task: model.Task{ID: "gone", Text: "edit"}, State: StatePending, Op: OpUpdate},
		{Task: model.Task{ID: "gone2"}, State: StatePending, Op: OpDelete},
		{Task: model.Task{ID: "local-1", Text: "new"}, State: StatePending, Op: OpCreate},
	}

	out := overlay(remote, cached)
	if len(out) != 4 {
		t.Fatalf("expected 4 entries, got %+v", out)
	}
	if out[0].Task.Text != "server a" || out[0].State != StateSynced {
		t.Errorf("synced cache entries must yield to the server: %+v", out[0])
	}
	if out[1].Task.Text != "local edit" || out[1].State != StatePending {
		t.Errorf("pending update must win over the server copy: %+v", out[1])
	}
	if out[2].Task.ID != "gone" || out[2].State != StateConflict {
		t.Errorf("update of a vanished task must conflict: %+v", out[2])
	}
	if out[3].Task.ID != "local-1" || out[3].Op != OpCreate {
		t.Errorf("pending create must be kept: %+v", out[3])
	}
}
