package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type statsService struct {
	repo           HitRepository
	contextTimeout time.Duration
}

// NewService creates the stats service with the given repository and per-call timeout.
func NewService(repo HitRepository, timeout time.Duration) Service {
	return &statsService{
		repo:           repo,
		contextTimeout: timeout,
	}
}

func (s *statsService) RecordHit(ctx context.Context, app, uri, ip string, timestamp time.Time) (*EndpointHit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	hit := &EndpointHit{
		ID:        uuid.New().String(),
		App:       app,
		URI:       uri,
		IP:        ip,
		Timestamp: timestamp,
	}
	if err := s.repo.Create(ctx, hit); err != nil {
		return nil, fmt.Errorf("failed to record hit: %w", err)
	}
	return hit, nil
}

func (s *statsService) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start and end are required: %w", ErrInvalidRange)
	}
	if start.After(end) {
		return nil, fmt.Errorf("start must not be after end: %w", ErrInvalidRange)
	}
	stats, err := s.repo.Aggregate(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	return stats, nil
}
