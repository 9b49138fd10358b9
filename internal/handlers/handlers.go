package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"comfort-route/internal/config"
	"comfort-route/internal/database"
	"comfort-route/internal/directions"
	"comfort-route/internal/geocoding"
	"comfort-route/internal/models"
	"comfort-route/internal/places"
	"comfort-route/internal/planner"
)

const maxRequestBodySize = 1 * 1024 * 1024

// Handler provides common handler utilities and dependencies.
// DB may be nil when the route cache is disabled.
type Handler struct {
	DB             database.DataStore
	Places         places.Searcher
	Directions     directions.Provider
	Planner        *planner.Planner
	RequestTimeout time.Duration
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode response: status=%d err=%v", status, err)
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleGeocodingError handles 422 errors for geocoding failures
func (h *Handler) handleGeocodingError(w http.ResponseWriter, err *geocoding.ErrGeocodingFailed) {
	h.writeError(w, http.StatusUnprocessableEntity, "GEOCODING_FAILED", err.Error(), map[string]string{
		"address": err.Address,
	})
}

// handleDirectionsError handles directions failures. A failure carrying an API
// code means the request was rejected (422); anything else is an upstream outage (502).
func (h *Handler) handleDirectionsError(w http.ResponseWriter, err *directions.ErrDirectionsFailed) {
	if err.Code != "" {
		h.writeError(w, http.StatusUnprocessableEntity, "DIRECTIONS_FAILED", err.Reason, map[string]string{
			"code": err.Code,
		})
		return
	}
	h.writeError(w, http.StatusBadGateway, "DIRECTIONS_FAILED", err.Reason, nil)
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", nil)
}

// handleUpstreamError maps errors from the planner and its collaborators onto error responses
func (h *Handler) handleUpstreamError(w http.ResponseWriter, err error) {
	var invalidErr *planner.ErrInvalidRequest
	var geocodeErr *geocoding.ErrGeocodingFailed
	var placesErr *places.ErrPlacesSearchFailed
	var directionsErr *directions.ErrDirectionsFailed

	switch {
	case errors.As(err, &invalidErr):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", invalidErr.Error(), map[string]string{
			"field": invalidErr.Field,
		})
	case errors.As(err, &geocodeErr):
		h.handleGeocodingError(w, geocodeErr)
	case errors.As(err, &placesErr):
		log.Printf("[ERROR] Places search failed: provider=%s err=%v", placesErr.Provider, err)
		h.writeError(w, http.StatusBadGateway, "PLACES_FAILED", placesErr.Reason, map[string]string{
			"provider": placesErr.Provider,
		})
	case errors.As(err, &directionsErr):
		log.Printf("[ERROR] Directions failed: err=%v", err)
		h.handleDirectionsError(w, directionsErr)
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[ERROR] Request timed out: err=%v", err)
		h.writeError(w, http.StatusGatewayTimeout, "TIMEOUT", "The request took too long. Please try again.", nil)
	default:
		h.handleInternalError(w, err)
	}
}

// requestContext bounds the request by RequestTimeout when one is set
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.RequestTimeout)
}

// decodeJSON decodes a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// validateCoordinates returns a validation message for a missing or out of range point, or ""
func validateCoordinates(field string, c *models.Coordinates) string {
	if c == nil {
		return fmt.Sprintf("%s is required", field)
	}
	if !c.Valid() {
		return fmt.Sprintf("%s must have lat in [-90,90] and lng in [-180,180]", field)
	}
	return ""
}

// validateClusterCount checks an optional k and returns the value to plan with (0 = default)
func validateClusterCount(k *int) (int, string) {
	if k == nil {
		return 0, ""
	}
	if *k < 1 || *k > config.MaxClusterCount {
		return 0, fmt.Sprintf("k must be between 1 and %d", config.MaxClusterCount)
	}
	return *k, ""
}
