package syncclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"leaflet/internal/httpserver"
	"leaflet/internal/model"
	"leaflet/internal/storage"
	"leaflet/internal/storage/jsonfile"
	"leaflet/pkg/log"
)

// testServer is the real API behind a switch that answers 503 while down.
type testServer struct {
	*httptest.Server
	store storage.Store
	down  atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := jsonfile.New(context.Background(), t.TempDir(), log.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	srv, err := httpserver.New(log.NewNop(), httpserver.Config{
		Logger: log.NewNop(),
		Port:   4000,
		Mode:   gin.TestMode,
		Store:  store,
	})
	if err != nil {
		t.Fatal(err)
	}

	ts := &testServer{store: store}
	h := srv.Handler()
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ts.down.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"down for maintenance"}`))
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) serverTasks(t *testing.T) []model.Task {
	t.Helper()
	tasks, err := ts.store.ListTasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return tasks
}

func newTestSyncer(t *testing.T, ts *testServer, cachePath string) *Syncer {
	t.Helper()
	if cachePath == "" {
		cachePath = filepath.Join(t.TempDir(), "cache.json")
	}
	s := New(NewRemoteClient(ts.URL, 2*time.Second), NewCache(cachePath, log.NewNop()), log.NewNop())
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func entryFor(t *testing.T, s *Syncer, id string) Entry {
	t.Helper()
	for _, e := range s.Entries() {
		if e.Task.ID == id {
			return e
		}
	}
	t.Fatalf("no entry %s", id)
	return Entry{}
}

func nopLogger() log.Logger { return log.NewNop() }
