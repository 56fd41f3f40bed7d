package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// Server pushes cache refresh events to subscribers on /ws/refresh.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu     sync.Mutex
	server *http.Server
}

// NewServer creates a WebSocket server around hub. allowedOrigins empty or
// containing "*" accepts any origin.
func NewServer(hub *Hub, allowedOrigins []string, log zerolog.Logger) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log.With().Str("component", "websocket").Logger(),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/refresh", s.handleRefresh)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Start serves on port until Shutdown.
func (s *Server) Start(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.log.Info().Int("port", port).Msg("websocket server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleRefresh upgrades the connection and subscribes it. An optional team
// query parameter limits events to one club.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		team: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("team"))),
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if !s.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

// NotifyRefresh broadcasts event to subscribers of its team.
func (s *Server) NotifyRefresh(_ context.Context, event store.RefreshEvent) error {
	data, err := json.Marshal(map[string]interface{}{
		"type":  "teamstats.refreshed",
		"event": event,
	})
	if err != nil {
		return fmt.Errorf("encoding refresh event: %w", err)
	}
	return s.hub.Broadcast(event.Team, data)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}
