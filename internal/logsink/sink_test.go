package logsink

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jack/golang-url-alias-service/internal/config"
)

type capturedRequest struct {
	event Event
	auth  string
}

func newCaptureServer(t *testing.T) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/logs", r.URL.Path)

		var event Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))

		mu.Lock()
		captured = append(captured, capturedRequest{event: event, auth: r.Header.Get("Authorization")})
		mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedRequest, len(captured))
		copy(out, captured)
		return out
	}
}

func TestLogDeliversEvents(t *testing.T) {
	srv, captured := newCaptureServer(t)

	c := New(&config.SinkConfig{BaseURL: srv.URL, Timeout: time.Second, Token: "secret", BufferSize: 16})
	c.Start()

	c.Log("backend", "info", "service", "alias created")
	c.Log("backend", "error", "service", "alias lookup failed")
	c.Stop()

	got := captured()
	require.Len(t, got, 2)
	assert.Equal(t, Event{Stack: "backend", Level: "info", Package: "service", Message: "alias created"}, got[0].event)
	assert.Equal(t, "Bearer secret", got[0].auth)
	assert.Equal(t, "error", got[1].event.Level)
}

func TestStopFlushesBuffer(t *testing.T) {
	srv, captured := newCaptureServer(t)

	c := New(&config.SinkConfig{BaseURL: srv.URL, Timeout: time.Second, BufferSize: 64})
	c.Start()

	for i := 0; i < 20; i++ {
		c.Log("backend", "info", "service", "event")
	}
	c.Stop()

	assert.Len(t, captured(), 20)
}

func TestDisabledClientIsNoop(t *testing.T) {
	c := New(&config.SinkConfig{})

	// None of these may panic or block.
	c.Start()
	c.Log("backend", "info", "service", "ignored")
	c.Stop()
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(&config.SinkConfig{BaseURL: srv.URL, Timeout: time.Second, BufferSize: 4})
	c.Start()
	c.Log("backend", "info", "service", "rejected upstream")
	c.Stop()
}

func TestUnreachableCollectorIsSwallowed(t *testing.T) {
	c := New(&config.SinkConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond, BufferSize: 4})
	c.Start()
	c.Log("backend", "info", "service", "nobody listening")
	c.Stop()
}
