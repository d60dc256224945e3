package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feedtrack/feedtrack/internal/client"
	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/realtime"
)

// fakeServer mimics the server's API surface for client tests.
type fakeServer struct {
	mux      *http.ServeMux
	items    atomic.Value // []feedback.Item
	logouts  atomic.Int32
	eventsCh chan realtime.Message
}

func newFakeServer() *fakeServer {
	s := &fakeServer{
		mux:      http.NewServeMux(),
		eventsCh: make(chan realtime.Message, 16),
	}
	s.items.Store([]feedback.Item{})

	s.mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok", Path: "/"})
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(identity.Identity{ID: "u1", DisplayName: "Ada"})
		case http.MethodDelete:
			s.logouts.Add(1)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	s.mux.HandleFunc("/api/feedback", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(s.items.Load())
	})
	s.mux.HandleFunc("/api/feedback/events", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		for {
			select {
			case <-r.Context().Done():
				return
			case msg := <-s.eventsCh:
				data, _ := json.Marshal(msg.Item)
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Tag, data)
				flusher.Flush()
			}
		}
	})
	return s
}

func startClient(t *testing.T) (*client.Client, *fakeServer) {
	t.Helper()
	fake := newFakeServer()
	srv := httptest.NewServer(fake.mux)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, nil)
	require.NoError(t, err)
	t.Cleanup(c.Detach)
	return c, fake
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestLogin_PopulatesStore(t *testing.T) {
	c, fake := startClient(t)
	fake.items.Store([]feedback.Item{{ID: "f1", Title: "Broken export"}})

	require.NoError(t, c.Login(context.Background(), "ada@example.com", "secret"))

	snap := c.Store().Snapshot()
	require.NotNil(t, snap.Identity)
	require.Equal(t, "u1", snap.Identity.ID)
	require.Len(t, snap.Items, 1)
}

func TestRealtime_CreateIncrementsStore(t *testing.T) {
	c, fake := startClient(t)

	require.NoError(t, c.Login(context.Background(), "ada@example.com", "secret"))
	require.Empty(t, c.Store().Snapshot().Items)

	fake.eventsCh <- realtime.Message{
		Tag:  realtime.TagCreate,
		Item: feedback.Item{ID: "t1", Title: "Bug"},
	}

	waitFor(t, func() bool { return len(c.Store().Snapshot().Items) == 1 })
	require.Equal(t, "Bug", c.Store().Snapshot().Items[0].Title)
}

func TestRealtime_UpdateMergesIntoStore(t *testing.T) {
	c, fake := startClient(t)
	fake.items.Store([]feedback.Item{{ID: "f1", Title: "Broken export", Status: feedback.StatusOpen}})

	require.NoError(t, c.Login(context.Background(), "ada@example.com", "secret"))

	fake.eventsCh <- realtime.Message{
		Tag:  realtime.TagUpdate,
		Item: feedback.Item{ID: "f1", Title: "Broken export", Status: feedback.StatusClosed},
	}

	waitFor(t, func() bool {
		snap := c.Store().Snapshot()
		return len(snap.Items) == 1 && snap.Items[0].Status == feedback.StatusClosed
	})
}

func TestRefreshItems_CancelledContextLeavesStoreUntouched(t *testing.T) {
	c, fake := startClient(t)
	require.NoError(t, c.Login(context.Background(), "ada@example.com", "secret"))

	fake.items.Store([]feedback.Item{{ID: "f1"}, {ID: "f2"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.RefreshItems(ctx)
	require.Error(t, err)
	require.Empty(t, c.Store().Snapshot().Items, "a torn-down fetch never writes the store")
}

func TestLogout_ClearsStoreAndDetaches(t *testing.T) {
	c, fake := startClient(t)
	fake.items.Store([]feedback.Item{{ID: "f1"}})

	require.NoError(t, c.Login(context.Background(), "ada@example.com", "secret"))
	require.NoError(t, c.Logout(context.Background()))

	snap := c.Store().Snapshot()
	require.Nil(t, snap.Identity)
	require.Empty(t, snap.Items)
	require.Equal(t, int32(1), fake.logouts.Load())
}
