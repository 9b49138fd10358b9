package handlers

import (
	"log"
	"net/http"

	"comfort-route/internal/models"
	"comfort-route/internal/planner"
)

// ComfortRouteRequest is the body of POST /api/v1/comfort-route.
// Each endpoint is given either as coordinates or as an address to geocode.
type ComfortRouteRequest struct {
	Start        *models.Coordinates `json:"start,omitempty"`
	End          *models.Coordinates `json:"end,omitempty"`
	StartAddress string              `json:"start_address,omitempty"`
	EndAddress   string              `json:"end_address,omitempty"`
	K            *int                `json:"k,omitempty"`
}

// HandleComfortRoute handles POST /api/v1/comfort-route
func (h *Handler) HandleComfortRoute(w http.ResponseWriter, r *http.Request) {
	var req ComfortRouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] POST /api/v1/comfort-route: invalid_body err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if req.Start != nil {
		if msg := validateCoordinates("start", req.Start); msg != "" {
			h.handleValidationError(w, msg)
			return
		}
	}
	if req.End != nil {
		if msg := validateCoordinates("end", req.End); msg != "" {
			h.handleValidationError(w, msg)
			return
		}
	}
	k, msg := validateClusterCount(req.K)
	if msg != "" {
		h.handleValidationError(w, msg)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	plan, err := h.Planner.Plan(ctx, planner.PlanRequest{
		Start:        req.Start,
		End:          req.End,
		StartAddress: req.StartAddress,
		EndAddress:   req.EndAddress,
		K:            k,
	})
	if err != nil {
		h.handleUpstreamError(w, err)
		return
	}

	log.Printf("[HTTP] POST /api/v1/comfort-route: waypoints=%d score=%.1f warnings=%d",
		len(plan.Waypoints), plan.ComfortScore, len(plan.Warnings))
	h.writeJSON(w, http.StatusOK, plan)
}
