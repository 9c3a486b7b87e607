package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewAPIClient(config.APIConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
		Token:          "test-token",
	})
	return client, srv
}

func serveJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchServicesPopulatesSnapshot(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/services":
			serveJSON(t, w, []ServiceRecord{
				{ID: "srv-1", Title: "Mantenimiento", ScheduledDate: "2025-06-15T14:30:00Z"},
				{ID: "srv-2", Title: "Reparación"},
			})
		case "/api/technicians":
			serveJSON(t, w, []Technician{{ID: "tec-1", Name: "Carlos Quispe"}})
		default:
			http.NotFound(w, r)
		}
	}))

	require.NoError(t, client.FetchServices(context.Background()))

	services := client.Services()
	require.Len(t, services, 2)
	assert.Equal(t, "srv-1", services[0].ID)
	assert.Equal(t, "2025-06-15T14:30:00Z", services[0].ScheduledDate)
	assert.Empty(t, services[1].ScheduledDate, "absent scheduledDate decodes to empty")

	technicians := client.Technicians()
	require.Len(t, technicians, 1)
	assert.Equal(t, "Carlos Quispe", technicians[0].DisplayName())

	assert.False(t, client.IsLoading())
}

func TestFetchServicesFailureKeepsSnapshot(t *testing.T) {
	var failing bool
	var mu sync.Mutex
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fail := failing
		mu.Unlock()
		if fail {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/api/services":
			serveJSON(t, w, []ServiceRecord{{ID: "srv-1"}})
		case "/api/technicians":
			serveJSON(t, w, []Technician{{ID: "tec-1", Name: "Carlos Quispe"}})
		}
	}))

	require.NoError(t, client.FetchServices(context.Background()))
	require.Len(t, client.Services(), 1)

	mu.Lock()
	failing = true
	mu.Unlock()

	err := client.FetchServices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")

	// Prior snapshot unchanged
	assert.Len(t, client.Services(), 1)
	assert.Len(t, client.Technicians(), 1)
}

func TestFetchServicesDiscardsStaleResponse(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var requests int
	var mu sync.Mutex

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/technicians" {
			serveJSON(t, w, []Technician{})
			return
		}

		mu.Lock()
		requests++
		n := requests
		mu.Unlock()

		if n == 1 {
			// Hold the first response until the second fetch has landed
			close(firstStarted)
			<-releaseFirst
			serveJSON(t, w, []ServiceRecord{{ID: "stale"}})
			return
		}
		serveJSON(t, w, []ServiceRecord{{ID: "fresh"}})
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, client.FetchServices(context.Background()))
	}()

	select {
	case <-firstStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("first fetch never reached the server")
	}

	// Second fetch completes while the first is stalled
	require.NoError(t, client.FetchServices(context.Background()))
	services := client.Services()
	require.Len(t, services, 1)
	require.Equal(t, "fresh", services[0].ID)

	// Let the slow first response land; it must be discarded
	close(releaseFirst)
	wg.Wait()

	services = client.Services()
	require.Len(t, services, 1)
	assert.Equal(t, "fresh", services[0].ID, "slow first response must not overwrite the fresher snapshot")
}

func TestIsLoadingDuringFetch(t *testing.T) {
	inHandler := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			close(inHandler)
			<-release
		})
		serveJSON(t, w, []ServiceRecord{})
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = client.FetchServices(context.Background())
	}()

	<-inHandler
	assert.True(t, client.IsLoading())
	close(release)
	<-done
	assert.False(t, client.IsLoading())
}
