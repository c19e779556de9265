package health

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/session"
)

// Routes served by the health module.
const (
	HealthPath = "/haircast/v1/health"
	StatsPath  = "/haircast/v1/stats"
)

// SessionStatsSource is the registry surface the handlers read from.
type SessionStatsSource interface {
	Count() int
	Snapshot() []session.Stats
}

// Handler serves the health and stats endpoints.
type Handler struct {
	checker  *CompositeHealthChecker
	registry SessionStatsSource
}

// NewHandler creates the health HTTP handler.
func NewHandler(checker *CompositeHealthChecker, registry SessionStatsSource) *Handler {
	return &Handler{checker: checker, registry: registry}
}

// RegisterRoutes mounts the health endpoints on the router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(HealthPath, h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc(StatsPath, h.handleStats).Methods(http.MethodGet)
}

type healthResponse struct {
	Status     ComponentStatus             `json:"status"`
	Sessions   int                         `json:"sessions"`
	Components map[string]*ComponentHealth `json:"components,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     h.checker.GetOverallStatus(r.Context()),
		Sessions:   h.registry.Count(),
		Components: h.checker.CheckAll(r.Context()),
	}

	code := http.StatusOK
	if resp.Status == ComponentStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

type statsResponse struct {
	Count    int             `json:"count"`
	Sessions []session.Stats `json:"sessions"`
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.registry.Snapshot()
	writeJSON(w, http.StatusOK, statsResponse{
		Count:    len(stats),
		Sessions: stats,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		corelog.Warnf("Health: response encode failed: %v", err)
	}
}
