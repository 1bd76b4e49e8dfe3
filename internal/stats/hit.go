package stats

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRange is returned when a stats query has a missing or inverted
// time window.
var ErrInvalidRange = errors.New("invalid time range")

// EndpointHit is one recorded request to a tracked endpoint.
type EndpointHit struct {
	ID        string    `json:"id"`
	App       string    `json:"app"`
	URI       string    `json:"uri"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// ViewStats is an aggregated hit count for one (app, uri) pair.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// HitRepository defines storage for endpoint hits.
type HitRepository interface {
	Create(ctx context.Context, hit *EndpointHit) error
	// Aggregate counts hits per (app, uri) in [start, end], restricted to
	// uris when non-empty. When unique is true each IP counts once per uri.
	// Results are ordered by hits descending.
	Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}

// Service defines the stats service operations.
type Service interface {
	RecordHit(ctx context.Context, app, uri, ip string, timestamp time.Time) (*EndpointHit, error)
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}
