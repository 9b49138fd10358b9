package handlers

import (
	"log"
	"net/http"

	"comfort-route/internal/models"
)

// VenuesRequest is the body of POST /api/venues
type VenuesRequest struct {
	Start *models.Coordinates `json:"start"`
	End   *models.Coordinates `json:"end"`
}

// VenuesResponse lists the venues found around a trip
type VenuesResponse struct {
	Venues []models.Venue `json:"venues"`
	Total  int            `json:"total"`
}

// HandleVenues handles POST /api/venues
func (h *Handler) HandleVenues(w http.ResponseWriter, r *http.Request) {
	var req VenuesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] POST /api/venues: invalid_body err=%v", err)
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

	ctx, cancel := h.requestContext(r)
	defer cancel()

	venues, err := h.Places.SearchVenues(ctx, *req.Start, *req.End)
	if err != nil {
		h.handleUpstreamError(w, err)
		return
	}
	if venues == nil {
		venues = []models.Venue{}
	}

	log.Printf("[HTTP] POST /api/venues: venues=%d", len(venues))
	h.writeJSON(w, http.StatusOK, VenuesResponse{Venues: venues, Total: len(venues)})
}
