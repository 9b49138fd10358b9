package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/olivere/elastic/v7"

	"comfort-route/internal/models"
)

const (
	DefaultVenueIndex = "venues"
	providerElastic   = "elasticsearch"
	maxElasticResults = 200
)

// venueMapping declares location as a geo_point so bounding box queries work
const venueMapping = `{
	"mappings": {
		"properties": {
			"id":       {"type": "keyword"},
			"name":     {"type": "text"},
			"category": {"type": "keyword"},
			"address":  {"type": "text"},
			"location": {"type": "geo_point"}
		}
	}
}`

// ElasticSearcher serves venues from an Elasticsearch index
type ElasticSearcher struct {
	client  *elastic.Client
	index   string
	padding float64
}

var _ Searcher = (*ElasticSearcher)(nil)

type venueDocument struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category string           `json:"category,omitempty"`
	Address  string           `json:"address,omitempty"`
	Location elastic.GeoPoint `json:"location"`
}

// NewElasticSearcher connects to the cluster at rawURL. Sniffing is disabled so
// the client works behind proxies and single-node setups.
func NewElasticSearcher(rawURL, index string, padding float64) (*ElasticSearcher, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(rawURL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return NewElasticSearcherWithClient(client, index, padding), nil
}

// NewElasticSearcherWithClient wraps an existing client
func NewElasticSearcherWithClient(client *elastic.Client, index string, padding float64) *ElasticSearcher {
	if index == "" {
		index = DefaultVenueIndex
	}
	return &ElasticSearcher{
		client:  client,
		index:   index,
		padding: padding,
	}
}

// SearchVenues returns indexed venues inside the padded start/end box, nearest to its center first
func (s *ElasticSearcher) SearchVenues(ctx context.Context, start, end models.Coordinates) ([]models.Venue, error) {
	bound, center := searchRegion(start, end, s.padding)

	query := elastic.NewBoolQuery().
		Must(elastic.NewMatchAllQuery()).
		Filter(elastic.NewGeoBoundingBoxQuery("location").
			TopLeft(bound.Top(), bound.Left()).
			BottomRight(bound.Bottom(), bound.Right()))

	log.Printf("[PLACES] Request: provider=%s index=%s bound=[%.5f,%.5f,%.5f,%.5f]",
		providerElastic, s.index, bound.Left(), bound.Bottom(), bound.Right(), bound.Top())

	result, err := s.client.Search().
		Index(s.index).
		Query(query).
		SortBy(elastic.NewGeoDistanceSort("location").
			Point(center.Lat, center.Lng).
			Asc().
			Unit("m").
			DistanceType("arc").
			IgnoreUnmapped(true)).
		Size(maxElasticResults).
		Do(ctx)
	if err != nil {
		log.Printf("[ERROR] Places search failed: provider=%s index=%s err=%v", providerElastic, s.index, err)
		return nil, &ErrPlacesSearchFailed{Provider: providerElastic, Reason: err.Error()}
	}

	venues := make([]models.Venue, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc venueDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			log.Printf("[PLACES] Skipping undecodable hit: provider=%s id=%s err=%v", providerElastic, hit.Id, err)
			continue
		}
		v := doc.toVenue()
		if v.ID == "" {
			v.ID = hit.Id
		}
		if len(hit.Sort) > 0 {
			if d, ok := hit.Sort[0].(float64); ok {
				v.DistanceMeters = d
			}
		}
		venues = append(venues, v)
	}
	venues = keepValid(providerElastic, venues)

	log.Printf("[PLACES] Response: provider=%s venues=%d", providerElastic, len(venues))
	return venues, nil
}

// EnsureIndex creates the venue index with a geo_point mapping if it does not exist
func (s *ElasticSearcher) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.IndexExists(s.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", s.index, err)
	}
	if exists {
		return nil
	}

	created, err := s.client.CreateIndex(s.index).BodyString(venueMapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", s.index, err)
	}
	if !created.Acknowledged {
		log.Printf("[PLACES] Create index not acknowledged: index=%s", s.index)
	}
	log.Printf("[PLACES] Index created: index=%s", s.index)
	return nil
}

// IndexVenues bulk-indexes venues by ID and returns how many failed
func (s *ElasticSearcher) IndexVenues(ctx context.Context, venues []models.Venue) (int, error) {
	venues = keepValid(providerElastic, venues)
	if len(venues) == 0 {
		return 0, nil
	}

	bulk := s.client.Bulk()
	for _, v := range venues {
		bulk = bulk.Add(elastic.NewBulkIndexRequest().Index(s.index).Id(v.ID).Doc(newVenueDocument(v)))
	}

	resp, err := bulk.Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to index venues: %w", err)
	}

	failed := 0
	for _, item := range resp.Failed() {
		failed++
		if item.Error != nil {
			log.Printf("[PLACES] Index failed: id=%s reason=%s", item.Id, item.Error.Reason)
		}
	}

	log.Printf("[PLACES] Indexed venues: index=%s total=%d failed=%d", s.index, len(venues), failed)
	return failed, nil
}

func newVenueDocument(v models.Venue) venueDocument {
	return venueDocument{
		ID:       v.ID,
		Name:     v.Name,
		Category: v.Category,
		Address:  v.Address,
		Location: elastic.GeoPoint{Lat: v.Lat, Lon: v.Lng},
	}
}

func (d venueDocument) toVenue() models.Venue {
	return models.Venue{
		ID:       d.ID,
		Name:     d.Name,
		Category: d.Category,
		Address:  d.Address,
		Lat:      d.Location.Lat,
		Lng:      d.Location.Lon,
	}
}
