// Command indexvenues loads a JSON array of venues into the Elasticsearch
// index used by PLACES_PROVIDER=elasticsearch.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"comfort-route/internal/models"
	"comfort-route/internal/places"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func rootCommand() *cobra.Command {
	var (
		esURL   string
		index   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "indexvenues <venues.json>",
		Short: "Load venues into the Elasticsearch venue index",
		Long:  "Create the venue index with a geo_point mapping if needed and bulk index a JSON array of venues",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			venues, err := readVenues(args[0])
			if err != nil {
				return err
			}

			searcher, err := places.NewElasticSearcher(esURL, index, 0)
			if err != nil {
				return fmt.Errorf("failed to connect to elasticsearch: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := searcher.EnsureIndex(ctx); err != nil {
				return err
			}
			failed, err := searcher.IndexVenues(ctx, venues)
			if err != nil {
				return err
			}

			log.Printf("Indexed venues: index=%s total=%d failed=%d", index, len(venues), failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d venues failed to index", failed, len(venues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&esURL, "url", getEnv("ELASTICSEARCH_URL", "http://127.0.0.1:9200"), "Elasticsearch URL")
	cmd.Flags().StringVar(&index, "index", getEnv("ELASTICSEARCH_INDEX", places.DefaultVenueIndex), "venue index name")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")

	return cmd
}

func readVenues(path string) ([]models.Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read venues file: %w", err)
	}

	var venues []models.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, fmt.Errorf("failed to parse venues file: %w", err)
	}

	valid := venues[:0:0]
	for _, v := range venues {
		if v.ID == "" || !v.GetCoords().Valid() {
			log.Printf("Skipping venue without id or valid coordinates: id=%q name=%q", v.ID, v.Name)
			continue
		}
		valid = append(valid, v)
	}
	return valid, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
