package handlers

import (
	"net/http"
)

// HealthResponse is the body of GET /api/v1/health
type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	Cache             string `json:"cache"`
	RouteCacheEntries *int   `json:"route_cache_entries,omitempty"`
	Sequencer         string `json:"sequencer,omitempty"`
}

// HandleHealthCheck handles GET /api/v1/health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Cache:   "disabled",
	}
	if h.Planner != nil {
		resp.Sequencer = h.Planner.SequencerName()
	}

	if h.DB != nil {
		resp.Cache = "connected"
		if err := h.DB.HealthCheck(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Cache = "error"
		} else if count, err := h.DB.RouteCache().Count(r.Context()); err == nil {
			resp.RouteCacheEntries = &count
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}
