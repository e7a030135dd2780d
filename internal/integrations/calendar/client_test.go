package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "primary", "token111", 5*time.Second, nopLogger{})
}

func TestQueryFreeBusy(t *testing.T) {
	t.Run("returns busy intervals", func(t *testing.T) {
		var gotPath, gotAuth string
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"busy":[{"start":"2026-09-14T10:00:00Z","end":"2026-09-14T11:00:00Z"}]}`))
		})

		busy, err := client.QueryFreeBusy(context.Background(),
			time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, "/v1/calendars/primary/freebusy", gotPath)
		assert.Equal(t, "Bearer token111", gotAuth)
		require.Len(t, busy, 1)
		assert.Equal(t, time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), busy[0].Start)
	})

	t.Run("server error means unavailable", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.QueryFreeBusy(context.Background(), time.Now(), time.Now().Add(time.Hour))

		assert.ErrorIs(t, err, ErrCalendarUnavailable)
	})
}

func TestCreateEvent(t *testing.T) {
	event := &Event{
		Summary: "consultation: Ivan Petrov",
		Start:   time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC),
	}

	t.Run("returns created event id", func(t *testing.T) {
		var gotEvent Event
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"evt-1"}`))
		})

		id, err := client.CreateEvent(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, "evt-1", id)
		assert.Equal(t, event.Summary, gotEvent.Summary)
	})

	t.Run("conflict on busy slot", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})

		_, err := client.CreateEvent(context.Background(), event)

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("response without id is invalid", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		_, err := client.CreateEvent(context.Background(), event)

		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestUpdateEvent(t *testing.T) {
	newStart := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	patch := &EventPatch{Start: &newStart}

	t.Run("patches event", func(t *testing.T) {
		var gotMethod, gotPath string
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		})

		err := client.UpdateEvent(context.Background(), "evt-1", patch)

		require.NoError(t, err)
		assert.Equal(t, http.MethodPatch, gotMethod)
		assert.Equal(t, "/v1/calendars/primary/events/evt-1", gotPath)
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.UpdateEvent(context.Background(), "evt-1", patch)

		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("conflict", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})

		err := client.UpdateEvent(context.Background(), "evt-1", patch)

		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("deletes event", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.DeleteEvent(context.Background(), "evt-1"))
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.DeleteEvent(context.Background(), "evt-1")

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
