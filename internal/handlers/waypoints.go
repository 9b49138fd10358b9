package handlers

import (
	"log"
	"net/http"

	"comfort-route/internal/models"
)

// WaypointsRequest is the body of POST /api/v1/waypoints
type WaypointsRequest struct {
	Start  *models.Coordinates `json:"start"`
	End    *models.Coordinates `json:"end"`
	Venues []models.Venue      `json:"venues"`
	K      *int                `json:"k,omitempty"`
}

// HandleWaypoints handles POST /api/v1/waypoints. It clusters the given venues
// and returns the detour waypoints without calling any external service.
func (h *Handler) HandleWaypoints(w http.ResponseWriter, r *http.Request) {
	var req WaypointsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] POST /api/v1/waypoints: invalid_body err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if msg := validateCoordinates("start", req.Start); msg != "" {
		h.handleValidationError(w, msg)
		return
	}
	if msg := validateCoordinates("end", req.End); msg != "" {
		h.handleValidationError(w, msg)
		return
	}
	k, msg := validateClusterCount(req.K)
	if msg != "" {
		h.handleValidationError(w, msg)
		return
	}

	invalid := []int{}
	for i := range req.Venues {
		if !req.Venues[i].GetCoords().Valid() {
			invalid = append(invalid, i)
		}
	}
	if len(invalid) > 0 {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "venues must have lat in [-90,90] and lng in [-180,180]", map[string]interface{}{
			"invalid_venues": invalid,
		})
		return
	}

	result := h.Planner.Waypoints(req.Venues, *req.Start, *req.End, k)

	log.Printf("[HTTP] POST /api/v1/waypoints: venues=%d clusters=%d waypoints=%d",
		len(req.Venues), len(result.Clusters), len(result.Waypoints))
	h.writeJSON(w, http.StatusOK, result)
}
