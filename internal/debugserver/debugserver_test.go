package debugserver

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func TestBroadcastDeliversSnapshotToConnectedClient(t *testing.T) {
	s := New()
	conn, cleanup := dialTestServer(t, s)
	defer cleanup()

	// Give the server goroutine a moment to register the client before
	// broadcasting.
	deadline := time.Now().Add(time.Second)
	for len(connectedClients(s)) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	s.Broadcast(RegisterSnapshot{PC: 0x1234, Reason: "breakpoint"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(payload), "4660") // 0x1234 decimal
	require.Contains(t, string(payload), "breakpoint")
}

func connectedClients(s *Server) map[*websocket.Conn]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[*websocket.Conn]struct{}, len(s.clients))
	for c := range s.clients {
		out[c] = struct{}{}
	}
	return out
}
