package handlers

import (
	"fmt"
	"log"
	"net/http"

	"comfort-route/internal/directions"
	"comfort-route/internal/models"
)

// maxRouteWaypoints leaves room for start and end in one directions request
const maxRouteWaypoints = directions.MaxCoordinates - 2

// RouteRequest is the body of POST /api/route
type RouteRequest struct {
	Start     *models.Coordinates  `json:"start"`
	End       *models.Coordinates  `json:"end"`
	Waypoints []models.Coordinates `json:"waypoints"`
}

// RouteResponse lists the route alternatives through the requested waypoints
type RouteResponse struct {
	Routes []models.Route `json:"routes"`
}

// HandleRoute handles POST /api/route
func (h *Handler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] POST /api/route: invalid_body err=%v", err)
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
	if len(req.Waypoints) > maxRouteWaypoints {
		h.handleValidationError(w, fmt.Sprintf("at most %d waypoints are allowed", maxRouteWaypoints))
		return
	}
	for i := range req.Waypoints {
		if msg := validateCoordinates(fmt.Sprintf("waypoints[%d]", i), &req.Waypoints[i]); msg != "" {
			h.handleValidationError(w, msg)
			return
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	routes, err := h.Directions.GetRoutes(ctx, *req.Start, *req.End, req.Waypoints)
	if err != nil {
		h.handleUpstreamError(w, err)
		return
	}
	if routes == nil {
		routes = []models.Route{}
	}

	log.Printf("[HTTP] POST /api/route: waypoints=%d routes=%d", len(req.Waypoints), len(routes))
	h.writeJSON(w, http.StatusOK, RouteResponse{Routes: routes})
}
