package zoezi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workoutPayload = `[{"workoutType": {"name": "Yoga"}, "space": 12, "numBooked": 8, "startTime": "2025-01-06 18:00:00"}]`

func newTestClient(baseURL string) *Client {
	c := NewClient(Config{BaseURL: baseURL, APIKey: "test-key"})
	c.backoff = time.Millisecond
	return c
}

func TestWorkouts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/workout/list", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "1", r.URL.Query().Get("siteId"))
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-01-31", r.URL.Query().Get("to"))
		w.Write([]byte(workoutPayload))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Workouts(context.Background(), 1, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Yoga", records[0].TypeName)
}

func TestWorkoutsRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(workoutPayload))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Workouts(context.Background(), 1, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorkoutsGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Workouts(context.Background(), 1, "2025-01-01", "2025-01-31")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(scheduleRetries), calls.Load())
}

func TestWorkoutsNotConfigured(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.Workouts(context.Background(), 1, "2025-01-01", "2025-01-31")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSitesDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Sites(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/site/list", r.URL.Path)
		w.Write([]byte(`[{"id": 1, "name": "Downtown"}]`))
	}))
	defer srv.Close()

	sites, err := newTestClient(srv.URL).Sites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Downtown", sites[0].Name)
}
