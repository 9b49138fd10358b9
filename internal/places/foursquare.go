package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"comfort-route/internal/models"
)

const (
	DefaultFoursquareURL = "https://api.foursquare.com"
	DefaultSearchRadius  = 5000
	defaultResultLimit   = 50
	providerFoursquare   = "foursquare"
)

type foursquareSearcher struct {
	baseURL      string
	apiKey       string
	radiusMeters int
	padding      float64
	limit        int
	httpClient   *http.Client
}

type foursquareResponse struct {
	Results []foursquarePlace `json:"results"`
}

type foursquarePlace struct {
	FsqID      string `json:"fsq_id"`
	Name       string `json:"name"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Geocodes struct {
		Main *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Location struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"location"`
	Distance float64 `json:"distance"`
}

// NewFoursquareSearcher creates a searcher for the Foursquare Places API.
// The search is centered on the padded start/end box and limited to open venues.
func NewFoursquareSearcher(baseURL, apiKey string, radiusMeters int, padding float64) Searcher {
	if baseURL == "" {
		baseURL = DefaultFoursquareURL
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultSearchRadius
	}
	return &foursquareSearcher{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		radiusMeters: radiusMeters,
		padding:      padding,
		limit:        defaultResultLimit,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *foursquareSearcher) SearchVenues(ctx context.Context, start, end models.Coordinates) ([]models.Venue, error) {
	_, center := searchRegion(start, end, s.padding)

	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%.6f,%.6f", center.Lat, center.Lng))
	params.Set("radius", strconv.Itoa(s.radiusMeters))
	params.Set("open_now", "true")
	params.Set("limit", strconv.Itoa(s.limit))
	queryURL := s.baseURL + "/v3/places/search?" + params.Encode()

	log.Printf("[PLACES] Request: provider=%s center=(%.6f,%.6f) radius=%d", providerFoursquare, center.Lat, center.Lng, s.radiusMeters)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &ErrPlacesSearchFailed{Provider: providerFoursquare, Reason: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Places API request failed: provider=%s err=%v", providerFoursquare, err)
		return nil, &ErrPlacesSearchFailed{Provider: providerFoursquare, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[ERROR] Places API error: provider=%s status=%d body=%s", providerFoursquare, resp.StatusCode, string(body))
		return nil, &ErrPlacesSearchFailed{
			Provider: providerFoursquare,
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var fsqResp foursquareResponse
	if err := json.NewDecoder(resp.Body).Decode(&fsqResp); err != nil {
		log.Printf("[ERROR] Failed to decode places response: provider=%s err=%v", providerFoursquare, err)
		return nil, &ErrPlacesSearchFailed{Provider: providerFoursquare, Reason: err.Error()}
	}

	venues := make([]models.Venue, 0, len(fsqResp.Results))
	for _, p := range fsqResp.Results {
		venues = append(venues, p.toVenue())
	}
	venues = keepValid(providerFoursquare, venues)

	log.Printf("[PLACES] Response: provider=%s venues=%d", providerFoursquare, len(venues))
	return venues, nil
}

func (p foursquarePlace) toVenue() models.Venue {
	v := models.Venue{
		ID:             p.FsqID,
		Name:           p.Name,
		Address:        p.Location.FormattedAddress,
		DistanceMeters: p.Distance,
		Lat:            math.NaN(),
		Lng:            math.NaN(),
	}
	if len(p.Categories) > 0 {
		v.Category = p.Categories[0].Name
	}
	if p.Geocodes.Main != nil {
		v.Lat = p.Geocodes.Main.Latitude
		v.Lng = p.Geocodes.Main.Longitude
	}
	return v
}
