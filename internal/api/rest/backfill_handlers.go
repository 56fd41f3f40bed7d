package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/backfill"
)

// BackfillService queues and reports backfill jobs. *backfill.Service
// satisfies it.
type BackfillService interface {
	Enqueue(ctx context.Context, req backfill.Request) (*backfill.Job, error)
	GetStatus(ctx context.Context) (*backfill.StatusSummary, error)
	Job(id string) (*backfill.Job, bool)
}

// BackfillHandler proxies API calls to the backfill service.
type BackfillHandler struct {
	service BackfillService
}

// NewBackfillHandler wires the REST layer to the backfill service.
func NewBackfillHandler(service BackfillService) *BackfillHandler {
	return &BackfillHandler{service: service}
}

type apiBackfillRequest struct {
	Team    string   `json:"team"`
	Season  string   `json:"season"`
	Seasons []string `json:"seasons"`
	Recent  int      `json:"recent"`
	DryRun  bool     `json:"dry_run"`
}

// HandleBackfillRequest handles POST /api/v1/backfill
func (h *BackfillHandler) HandleBackfillRequest(w http.ResponseWriter, r *http.Request) {
	var req apiBackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	backfillReq := backfill.Request{
		Team:   req.Team,
		Recent: req.Recent,
		DryRun: req.DryRun,
	}
	backfillReq.Seasons = append(backfillReq.Seasons, req.Seasons...)
	if req.Season != "" {
		backfillReq.Seasons = append(backfillReq.Seasons, req.Season)
	}

	job, err := h.service.Enqueue(r.Context(), backfillReq)
	switch {
	case errors.Is(err, backfill.ErrQueueFull):
		respondError(w, http.StatusServiceUnavailable, "Backfill queue is full", err)
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "Failed to enqueue backfill job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": job,
	})
}

// HandleBackfillStatus handles GET /api/v1/backfill/status
func (h *BackfillHandler) HandleBackfillStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch status", err)
		return
	}

	respondJSON(w, http.StatusOK, buildStatusPayload(summary))
}

// HandleBackfillJob handles GET /api/v1/backfill/jobs/{jobID}
func (h *BackfillHandler) HandleBackfillJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.service.Job(mux.Vars(r)["jobID"])
	if !ok {
		respondError(w, http.StatusNotFound, "Job not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func buildStatusPayload(summary *backfill.StatusSummary) map[string]interface{} {
	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
	}

	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		if summary.ActiveJob.StatusMessage != "" {
			response["message"] = summary.ActiveJob.StatusMessage
		}
		response["active_job"] = summary.ActiveJob
	}

	history := summary.History
	if history == nil {
		history = []*backfill.Job{}
	}
	response["history"] = history
	return response
}
