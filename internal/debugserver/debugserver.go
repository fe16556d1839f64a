// Package debugserver is an optional debug hook surface: a websocket
// endpoint a host can open to receive register-state snapshots whenever
// the core hits a breakpoint. It has no effect on emulation unless a
// client is attached, and is not part of the documented core API surface
// (spec.md's Non-goals exclude a disassembler and host UI, but not a
// narrow machine-readable introspection channel).
package debugserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tenfold-systems/dmgcore/pkg/log"
)

// RegisterSnapshot is the JSON frame pushed to connected clients.
type RegisterSnapshot struct {
	PC, SP         uint16
	A, F           uint8
	B, C, D, E     uint8
	H, L           uint8
	Reason         string
}

// Server accepts websocket connections and fans a snapshot out to all of
// them. The zero value is not usable; construct with New.
type Server struct {
	upgrader websocket.Upgrader
	log      log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New returns a Server ready to be mounted on an *http.ServeMux via
// Handler, or run standalone via ListenAndServe.
func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log.New("debugserver"),
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP handler to mount at the debug websocket path.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Errorf("websocket upgrade failed: %v", err)
			return
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()

		go s.drain(conn)
	}
}

// drain discards inbound messages and removes the client once it closes,
// since this channel is push-only from the core's side.
func (s *Server) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
			return
		}
	}
}

// Broadcast pushes snapshot to every connected client, dropping any that
// fail to write.
func (s *Server) Broadcast(snapshot RegisterSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// ListenAndServe runs the debug server standalone at addr, blocking
// until it errors.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/debug", s.Handler())
	return http.ListenAndServe(addr, mux)
}
