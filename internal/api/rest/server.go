// Package rest exposes team-season stats, drill-downs and backfill control
// over HTTP.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
)

// Server represents the REST API server
type Server struct {
	port   int
	server *http.Server
	log    zerolog.Logger
}

// NewServer creates a new REST API server. backfillHandler may be nil, in
// which case the backfill routes are not registered.
func NewServer(port int, handler *Handler, backfillHandler *BackfillHandler, m *metrics.Manager, allowedOrigins []string, log zerolog.Logger) *Server {
	log = log.With().Str("component", "rest").Logger()

	return &Server{
		port: port,
		log:  log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(handler, backfillHandler, m, allowedOrigins, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the routed, CORS-wrapped handler.
func NewRouter(handler *Handler, backfillHandler *BackfillHandler, m *metrics.Manager, allowedOrigins []string, log zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log, m))

	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams and seasons
	api.HandleFunc("/teams", handler.GetTeams).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamID}", handler.GetTeam).Methods(http.MethodGet)
	api.HandleFunc("/seasons", handler.GetSeasons).Methods(http.MethodGet)
	api.HandleFunc("/seasons/current", handler.GetCurrentSeason).Methods(http.MethodGet)

	// Team-season stats
	api.HandleFunc("/teams/{teamID}/seasons/{seasonID}/stats", handler.GetTeamSeasonStats).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamID}/seasons/{seasonID}/summary", handler.GetTeamSeasonSummary).Methods(http.MethodGet)

	// Drill-downs
	api.HandleFunc("/games/{gameID}", handler.GetGame).Methods(http.MethodGet)
	api.HandleFunc("/players/{playerID}/career", handler.GetPlayerCareer).Methods(http.MethodGet)

	// Backfill operations
	if backfillHandler != nil {
		api.HandleFunc("/backfill", backfillHandler.HandleBackfillRequest).Methods(http.MethodPost)
		api.HandleFunc("/backfill/status", backfillHandler.HandleBackfillStatus).Methods(http.MethodGet)
		api.HandleFunc("/backfill/jobs/{jobID}", backfillHandler.HandleBackfillJob).Methods(http.MethodGet)
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

// Start starts the REST API server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("REST server listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
