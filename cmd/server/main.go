package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"comfort-route/internal/clustering"
	"comfort-route/internal/config"
	"comfort-route/internal/database"
	"comfort-route/internal/directions"
	"comfort-route/internal/geocoding"
	"comfort-route/internal/places"
	"comfort-route/internal/planner"
	"comfort-route/internal/routing"
	"comfort-route/internal/server"
	"comfort-route/internal/sqlite"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	addr := getEnv("SERVER_ADDR", "127.0.0.1:8080")

	tuning := config.DefaultTuning()
	if path := os.Getenv("TUNING_CONFIG"); path != "" {
		loaded, err := config.LoadTuning(path)
		if err != nil {
			return fmt.Errorf("failed to load tuning config: %w", err)
		}
		tuning = loaded
		log.Printf("Loaded tuning config from %s", path)
	}

	db, err := openRouteCache()
	if err != nil {
		return err
	}

	var routeCache database.RouteCacheRepository
	if db != nil {
		routeCache = db.RouteCache()
	}

	searcher, err := newPlacesSearcher(tuning)
	if err != nil {
		closeStore(db)
		return err
	}

	sequencer, err := routing.NewSequencer(tuning.GetSequencer())
	if err != nil {
		closeStore(db)
		return fmt.Errorf("failed to create sequencer: %w", err)
	}

	provider, err := newDirectionsProvider(routeCache)
	if err != nil {
		closeStore(db)
		return err
	}

	p := planner.New(planner.Config{
		Places:              searcher,
		Directions:          provider,
		Geocoder:            geocoding.NewNominatimGeocoder(getEnv("NOMINATIM_URL", geocoding.DefaultNominatimURL)),
		Clusterer:           clustering.NewResilient(clustering.NewKMeans(newRand(tuning), tuning.GetMaxIterations())),
		Sequencer:           sequencer,
		Scorer:              routing.NewConstantScorer(tuning.GetComfortScore()),
		DefaultK:            tuning.GetClusterCount(),
		MinWaypointDistance: tuning.GetMinWaypointDistance(),
	})

	srv, err := server.New(server.Config{
		Addr:           addr,
		DB:             db,
		Places:         searcher,
		Directions:     provider,
		Planner:        p,
		RequestTimeout: tuning.GetRequestTimeout(),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	})
	if err != nil {
		closeStore(db)
		return fmt.Errorf("failed to create server: %w", err)
	}

	actualAddr, err := srv.Start()
	if err != nil {
		closeStore(db)
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Printf("Comfort route API listening on http://%s (sequencer=%s k=%d)", actualAddr, p.SequencerName(), tuning.GetClusterCount())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	log.Printf("Received signal %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// openRouteCache opens the SQLite route cache. ROUTE_CACHE_PATH=off disables it.
func openRouteCache() (database.DataStore, error) {
	path := os.Getenv("ROUTE_CACHE_PATH")
	if strings.EqualFold(path, "off") {
		log.Printf("Route cache disabled")
		return nil, nil
	}
	if path == "" {
		defaultPath, err := database.GetDefaultRouteCachePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve route cache path: %w", err)
		}
		path = defaultPath
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open route cache: %w", err)
	}
	return store, nil
}

func newPlacesSearcher(tuning *config.Tuning) (places.Searcher, error) {
	provider := strings.ToLower(getEnv("PLACES_PROVIDER", "foursquare"))
	switch provider {
	case "foursquare":
		return places.NewFoursquareSearcher(
			getEnv("FOURSQUARE_URL", places.DefaultFoursquareURL),
			os.Getenv("FOURSQUARE_API_KEY"),
			tuning.GetSearchRadiusMeters(),
			tuning.GetSearchPadding(),
		), nil
	case "elasticsearch", "elastic":
		searcher, err := places.NewElasticSearcher(
			getEnv("ELASTICSEARCH_URL", "http://127.0.0.1:9200"),
			getEnv("ELASTICSEARCH_INDEX", places.DefaultVenueIndex),
			tuning.GetSearchPadding(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch places searcher: %w", err)
		}
		return searcher, nil
	default:
		return nil, fmt.Errorf("unknown PLACES_PROVIDER %q (want foursquare or elasticsearch)", provider)
	}
}

func newDirectionsProvider(cache database.RouteCacheRepository) (directions.Provider, error) {
	provider := strings.ToLower(getEnv("DIRECTIONS_PROVIDER", "mapbox"))
	switch provider {
	case "mapbox":
		return directions.NewMapboxProvider(
			getEnv("MAPBOX_BASE_URL", directions.DefaultMapboxURL),
			os.Getenv("MAPBOX_ACCESS_TOKEN"),
			cache,
		), nil
	case "osrm":
		return directions.NewOSRMProvider(getEnv("OSRM_URL", directions.DefaultOSRMURL), cache), nil
	default:
		return nil, fmt.Errorf("unknown DIRECTIONS_PROVIDER %q (want mapbox or osrm)", provider)
	}
}

func newRand(tuning *config.Tuning) *rand.Rand {
	if seed, ok := tuning.GetRandomSeed(); ok {
		log.Printf("Using fixed clustering seed %d", seed)
		return rand.New(rand.NewSource(seed))
	}
	return nil
}

func closeStore(db database.DataStore) {
	if db != nil {
		db.Close()
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
