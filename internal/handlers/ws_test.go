package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialBoard(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/board"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event map[string]string
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestBoardSocketReceivesRefreshAfterReload(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dialBoard(t, srv)
	defer conn.Close()

	assert.Equal(t, "connected", readEvent(t, conn)["type"])

	// A manual board refresh reloads the snapshot, which pushes a refresh
	// event to every connected client.
	w := env.do(t, http.MethodPost, "/api/board/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "refresh", readEvent(t, conn)["type"])
}

func TestBoardSocketBroadcastReachesEveryClient(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	first := dialBoard(t, srv)
	defer first.Close()
	second := dialBoard(t, srv)
	defer second.Close()

	require.Equal(t, "connected", readEvent(t, first)["type"])
	require.Equal(t, "connected", readEvent(t, second)["type"])

	env.hub.BroadcastRefresh()

	assert.Equal(t, "refresh", readEvent(t, first)["type"])
	assert.Equal(t, "refresh", readEvent(t, second)["type"])
}

func TestBoardSocketBroadcastSurvivesClosedClients(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	gone := dialBoard(t, srv)
	require.Equal(t, "connected", readEvent(t, gone)["type"])
	require.NoError(t, gone.Close())

	alive := dialBoard(t, srv)
	defer alive.Close()
	require.Equal(t, "connected", readEvent(t, alive)["type"])

	// Broadcasting with a departed client in the set must still deliver to
	// the live one.
	env.hub.BroadcastRefresh()
	assert.Equal(t, "refresh", readEvent(t, alive)["type"])
}

func TestBoardSocketSessionsDoNotLeakGoroutines(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		conn := dialBoard(t, srv)
		require.Equal(t, "connected", readEvent(t, conn)["type"])
		require.NoError(t, conn.Close())
	}

	// Each session's read loop and ping goroutine must wind down once the
	// client is gone. Allow slack for the server's own idle conns.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+5
	}, 3*time.Second, 50*time.Millisecond,
		"goroutines before=%d after=%d", before, runtime.NumGoroutine())
}
