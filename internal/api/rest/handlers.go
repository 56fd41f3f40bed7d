package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/season"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/service"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

const maxSeasonWindow = 100

// StatsLoader serves cached team-season snapshots. *cache.Manager satisfies it.
type StatsLoader interface {
	Load(ctx context.Context, team teams.Info, seasonID string, force bool) (*cache.Result, error)
}

// DetailProvider serves game and player drill-downs. *service.DetailService
// satisfies it.
type DetailProvider interface {
	GameDetail(ctx context.Context, gameID string) (*store.GameDetail, error)
	PlayerCareer(ctx context.Context, playerID string) (*store.PlayerCareer, error)
}

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

type namedCheck struct {
	name  string
	check HealthFunc
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	stats        StatsLoader
	details      DetailProvider
	clock        clockwork.Clock
	norm         *gametime.Normalizer
	defaultTeam  string
	seasonWindow int
	version      string
	checks       []namedCheck
	log          zerolog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefaultTeam sets the team unknown codes resolve to.
func WithDefaultTeam(id string) HandlerOption {
	return func(h *Handler) { h.defaultTeam = id }
}

// WithSeasonWindow sets how many past seasons /seasons lists by default.
func WithSeasonWindow(n int) HandlerOption {
	return func(h *Handler) {
		if n >= 0 {
			h.seasonWindow = n
		}
	}
}

// WithHandlerClock sets the clock used to decide the current season.
func WithHandlerClock(clock clockwork.Clock) HandlerOption {
	return func(h *Handler) { h.clock = clock }
}

// WithNormalizer sets the league-local time zone.
func WithNormalizer(norm *gametime.Normalizer) HandlerOption {
	return func(h *Handler) { h.norm = norm }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// WithHealthCheck adds a dependency probe to /health.
func WithHealthCheck(name string, check HealthFunc) HandlerOption {
	return func(h *Handler) {
		if check != nil {
			h.checks = append(h.checks, namedCheck{name: name, check: check})
		}
	}
}

// WithHandlerLogger sets the handler's logger.
func WithHandlerLogger(log zerolog.Logger) HandlerOption {
	return func(h *Handler) { h.log = log.With().Str("component", "rest").Logger() }
}

// NewHandler creates a new handler
func NewHandler(stats StatsLoader, details DetailProvider, opts ...HandlerOption) *Handler {
	h := &Handler{
		stats:        stats,
		details:      details,
		clock:        clockwork.NewRealClock(),
		norm:         gametime.Default(),
		defaultTeam:  teams.DefaultTeamID,
		seasonWindow: season.DefaultWindow,
		version:      "dev",
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.check(ctx); err != nil {
			deps[c.name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[c.name] = "ok"
	}

	body := map[string]interface{}{
		"status":  "healthy",
		"service": "nhl-stats-tracker",
		"version": h.version,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	respondJSON(w, status, body)
}

// GetTeams lists every club.
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	list := teams.List()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams":       list,
		"count":       len(list),
		"defaultTeam": h.resolveTeam("").ID,
	})
}

// GetTeam returns one club. Unknown codes resolve to the default team.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.resolveTeam(mux.Vars(r)["teamID"]))
}

// GetSeasons lists the selectable seasons, oldest first.
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	window := h.seasonWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxSeasonWindow {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid window (0-%d)", maxSeasonWindow), err)
			return
		}
		window = n
	}

	list := season.Available(window, h.now())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"seasons": list,
		"current": list[len(list)-1].ID,
	})
}

// GetCurrentSeason returns the season active in league-local time.
func (h *Handler) GetCurrentSeason(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, season.Current(h.now()))
}

type statsResponse struct {
	Team      teams.Info       `json:"team"`
	Season    season.Info      `json:"season"`
	Stats     *store.TeamStats `json:"stats"`
	CachedAt  *time.Time       `json:"cachedAt,omitempty"`
	FromCache bool             `json:"fromCache"`
	Stale     bool             `json:"stale"`
	Warning   string           `json:"warning,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// GetTeamSeasonStats returns the snapshot for a team-season. refresh=true
// bypasses a fresh cache entry.
func (h *Handler) GetTeamSeasonStats(w http.ResponseWriter, r *http.Request) {
	res, team, info, ok := h.loadStats(w, r)
	if !ok {
		return
	}

	resp := statsResponse{
		Team:      team,
		Season:    info,
		Stats:     res.Stats,
		FromCache: res.FromCache,
		Stale:     res.Stale,
		Warning:   res.Warning,
	}
	if !res.CachedAt.IsZero() {
		at := res.CachedAt
		resp.CachedAt = &at
	}
	if res.Stats != nil && !res.Stats.TeamExisted {
		resp.Message = fmt.Sprintf("The %s did not play in the %s season.", team.FullName, info.DisplayName)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetTeamSeasonSummary returns just the derived records and standings.
func (h *Handler) GetTeamSeasonSummary(w http.ResponseWriter, r *http.Request) {
	res, team, info, ok := h.loadStats(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":        team.ID,
		"season":      info.ID,
		"teamExisted": res.Stats.TeamExisted,
		"summary":     res.Stats.Summary,
		"standings":   res.Stats.Standings,
		"stale":       res.Stale,
	})
}

func (h *Handler) loadStats(w http.ResponseWriter, r *http.Request) (*cache.Result, teams.Info, season.Info, bool) {
	vars := mux.Vars(r)
	team := h.resolveTeam(vars["teamID"])

	info, ok := season.ByID(vars["seasonID"])
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid season ID (expected e.g. 20242025)", service.ErrUnknownSeason)
		return nil, team, info, false
	}

	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	res, err := h.stats.Load(r.Context(), team, info.ID, force)
	if err != nil {
		h.respondServiceError(w, fmt.Sprintf("Failed to load stats for %s %s", team.ID, info.DisplayName), err)
		return nil, team, info, false
	}
	return res, team, info, true
}

// GetGame returns a single game's summary.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	detail, err := h.details.GameDetail(r.Context(), mux.Vars(r)["gameID"])
	if err != nil {
		h.respondServiceError(w, "Failed to fetch game", err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// GetPlayerCareer returns a player's career totals.
func (h *Handler) GetPlayerCareer(w http.ResponseWriter, r *http.Request) {
	career, err := h.details.PlayerCareer(r.Context(), mux.Vars(r)["playerID"])
	if err != nil {
		h.respondServiceError(w, "Failed to fetch player career", err)
		return
	}
	respondJSON(w, http.StatusOK, career)
}

func (h *Handler) resolveTeam(id string) teams.Info {
	return teams.Resolve(id, h.defaultTeam)
}

func (h *Handler) now() time.Time {
	return h.norm.Now(h.clock)
}

// respondServiceError maps service errors onto HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Warn().Err(err).Int("status", status).Msg(message)
	}
	respondError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownSeason):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case service.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
