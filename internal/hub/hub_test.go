package hub

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimRight(line, "\n")
}

func TestHubStreamsBroadcasts(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected", readLine(t, r))
	readLine(t, r)

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast(map[string]string{"type": "character_created"})

	assert.Equal(t, "id: 1", readLine(t, r))
	assert.Equal(t, `data: {"type":"character_created"}`, readLine(t, r))

	cancel()
	_, err = io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, 0, h.ClientCount())
}

func TestHubKeepAlive(t *testing.T) {
	h := New().WithKeepAlive(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	readLine(t, r)
	readLine(t, r)
	assert.Equal(t, ": keepalive", readLine(t, r))
}

func TestServeAfterStopIsUnavailable(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
