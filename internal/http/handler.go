// Package httpapp serves the read-only dashboard JSON API.
package httpapp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mfreitas/flowscout/internal/app"
	"github.com/mfreitas/flowscout/internal/constants"
	"github.com/mfreitas/flowscout/internal/logger"
	"github.com/mfreitas/flowscout/internal/store"
)

type Handler struct {
	Dashboard *app.DashboardService
	Logger    *logger.Logger
}

func NewHandler(dashboard *app.DashboardService, log *logger.Logger) *Handler {
	return &Handler{
		Dashboard: dashboard,
		Logger:    log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/stats", h.GetStats)
	r.Get("/api/pulse", h.GetPulse)
	r.Get("/api/workflows", h.ListWorkflows)
	r.Get("/api/workflows/{slug}", h.GetWorkflow)
	r.Get("/api/tools", h.GetToolsIndex)
	r.Get("/api/channels", h.GetChannelStats)
	r.Get("/api/scans", h.GetScanHistory)
	r.Get("/api/sources", h.GetSources)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats()
	if err != nil {
		h.Logger.Error("Stats query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetPulse(w http.ResponseWriter, r *http.Request) {
	pulse, err := h.Dashboard.Pulse()
	if err != nil {
		h.Logger.Error("Pulse query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load pulse")
		return
	}
	h.writeJSON(w, http.StatusOK, pulse)
}

func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.WorkflowFilter{
		UseCase:        q.Get("use_case"),
		SkillLevel:     q.Get("skill_level"),
		PublishedAfter: q.Get("published_after"),
		SortBy:         q.Get("sort"),
	}
	if raw := q.Get("min_score"); raw != "" {
		minScore, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "min_score must be an integer")
			return
		}
		filter.MinValueScore = &minScore
	}

	workflows, err := h.Dashboard.ListWorkflows(filter)
	if err != nil {
		h.Logger.Error("Workflow list failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list workflows")
		return
	}
	h.writeJSON(w, http.StatusOK, workflows)
}

func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.Dashboard.WorkflowDetail(slug)
	if err != nil {
		h.Logger.Error("Workflow detail failed", "slug", slug, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load workflow")
		return
	}
	if detail == nil {
		h.writeError(w, http.StatusNotFound, "Workflow not found")
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) GetToolsIndex(w http.ResponseWriter, r *http.Request) {
	index, err := h.Dashboard.ToolsIndex()
	if err != nil {
		h.Logger.Error("Tools index failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load tools")
		return
	}
	h.writeJSON(w, http.StatusOK, index)
}

func (h *Handler) GetChannelStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.ChannelStats()
	if err != nil {
		h.Logger.Error("Channel stats failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load channels")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetScanHistory(w http.ResponseWriter, r *http.Request) {
	limit := constants.ScanHistoryMax
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	history, err := h.Dashboard.ScanHistory(limit)
	if err != nil {
		h.Logger.Error("Scan history failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load scan history")
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

func (h *Handler) GetSources(w http.ResponseWriter, r *http.Request) {
	channels, err := h.Dashboard.Sources()
	if err != nil {
		h.Logger.Error("Sources failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load sources")
		return
	}
	h.writeJSON(w, http.StatusOK, channels)
}
