package domain

import (
	"context"
	"time"
)

// ViewStats is an aggregated view count for a URI, as reported by the stats
// service.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsClient is the collaborator interface to the stats service.
//
// Hit is fire-and-forget: implementations must swallow and log failures, so
// an unavailable stats service never breaks a request.
type StatsClient interface {
	Hit(ctx context.Context, uri, ip string, timestamp time.Time)
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}
