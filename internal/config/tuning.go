package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"comfort-route/internal/clustering"
	"comfort-route/internal/places"
	"comfort-route/internal/routing"
)

// DefaultClusterCount is the number of venue clusters a plan asks for
const DefaultClusterCount = 3

// MaxClusterCount bounds k; a directions request carries at most 25 coordinates
const MaxClusterCount = 23

// Tuning holds the planner parameters. Every field is optional: nil means
// "use the default", so partial files are safe.
type Tuning struct {
	ClusterCount        *int     `json:"cluster_count,omitempty"`
	MaxIterations       *int     `json:"max_iterations,omitempty"`
	RandomSeed          *int64   `json:"random_seed,omitempty"`
	MinWaypointDistance *float64 `json:"min_waypoint_distance,omitempty"`
	SearchRadiusMeters  *int     `json:"search_radius_meters,omitempty"`
	SearchPadding       *float64 `json:"search_padding,omitempty"`
	Sequencer           *string  `json:"sequencer,omitempty"`
	ComfortScore        *float64 `json:"comfort_score,omitempty"`
	RequestTimeout      *string  `json:"request_timeout,omitempty"` // duration string like "20s"
}

// DefaultTuning returns a Tuning with every field unset
func DefaultTuning() *Tuning {
	return &Tuning{}
}

// LoadTuning loads a Tuning from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the set values are usable
func (t *Tuning) Validate() error {
	if t.ClusterCount != nil && (*t.ClusterCount < 1 || *t.ClusterCount > MaxClusterCount) {
		return fmt.Errorf("cluster_count must be between 1 and %d, got %d", MaxClusterCount, *t.ClusterCount)
	}
	if t.MaxIterations != nil && *t.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive, got %d", *t.MaxIterations)
	}
	if t.MinWaypointDistance != nil && !(*t.MinWaypointDistance > 0) {
		return fmt.Errorf("min_waypoint_distance must be positive, got %f", *t.MinWaypointDistance)
	}
	if t.SearchRadiusMeters != nil && (*t.SearchRadiusMeters < 1 || *t.SearchRadiusMeters > 100000) {
		return fmt.Errorf("search_radius_meters must be between 1 and 100000, got %d", *t.SearchRadiusMeters)
	}
	if t.SearchPadding != nil && (math.IsNaN(*t.SearchPadding) || *t.SearchPadding < 0 || *t.SearchPadding > 1) {
		return fmt.Errorf("search_padding must be between 0 and 1, got %f", *t.SearchPadding)
	}
	if t.Sequencer != nil {
		if _, err := routing.NewSequencer(*t.Sequencer); err != nil {
			return err
		}
	}
	if t.ComfortScore != nil && (math.IsNaN(*t.ComfortScore) || *t.ComfortScore < 0 || *t.ComfortScore > routing.MaxComfortScore) {
		return fmt.Errorf("comfort_score must be between 0 and %g, got %f", routing.MaxComfortScore, *t.ComfortScore)
	}
	if t.RequestTimeout != nil && *t.RequestTimeout != "" {
		d, err := time.ParseDuration(*t.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout '%s': %w", *t.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive, got %s", d)
		}
	}
	return nil
}

// GetClusterCount returns cluster_count or DefaultClusterCount
func (t *Tuning) GetClusterCount() int {
	if t.ClusterCount == nil {
		return DefaultClusterCount
	}
	return *t.ClusterCount
}

// GetMaxIterations returns max_iterations or the k-means default
func (t *Tuning) GetMaxIterations() int {
	if t.MaxIterations == nil {
		return clustering.DefaultMaxIterations
	}
	return *t.MaxIterations
}

// GetRandomSeed returns the configured seed and whether one was set
func (t *Tuning) GetRandomSeed() (int64, bool) {
	if t.RandomSeed == nil {
		return 0, false
	}
	return *t.RandomSeed, true
}

func (t *Tuning) GetMinWaypointDistance() float64 {
	if t.MinWaypointDistance == nil {
		return routing.DefaultMinWaypointDistance
	}
	return *t.MinWaypointDistance
}

func (t *Tuning) GetSearchRadiusMeters() int {
	if t.SearchRadiusMeters == nil {
		return places.DefaultSearchRadius
	}
	return *t.SearchRadiusMeters
}

func (t *Tuning) GetSearchPadding() float64 {
	if t.SearchPadding == nil {
		return places.DefaultSearchPadding
	}
	return *t.SearchPadding
}

func (t *Tuning) GetSequencer() string {
	if t.Sequencer == nil || *t.Sequencer == "" {
		return routing.SequencerGreedy
	}
	return *t.Sequencer
}

func (t *Tuning) GetComfortScore() float64 {
	if t.ComfortScore == nil {
		return routing.DefaultComfortScore
	}
	return *t.ComfortScore
}

// GetRequestTimeout parses request_timeout, defaulting to 30s
func (t *Tuning) GetRequestTimeout() time.Duration {
	if t.RequestTimeout == nil || *t.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(*t.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
