package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlisting/internal/domain"
)

type compilationService struct {
	compilationRepo domain.CompilationRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

func NewCompilationService(compilationRepo domain.CompilationRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CompilationService {
	return &compilationService{
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func (s *compilationService) CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []string) (*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if title == "" {
		return nil, fmt.Errorf("compilation title is required: %w", domain.ErrInvalidInput)
	}
	events, err := s.resolveEvents(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	comp := &domain.Compilation{Title: title, Pinned: pinned, EventIDs: eventIDs}
	if err := s.compilationRepo.Create(ctx, comp); err != nil {
		return nil, fmt.Errorf("create compilation: %w", err)
	}
	return &domain.CompilationWithEvents{Compilation: comp, Events: events}, nil
}

func (s *compilationService) UpdateCompilation(ctx context.Context, id string, upd domain.CompilationUpdate) (*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comp, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get compilation: %w", err)
	}
	if upd.Title != nil {
		comp.Title = *upd.Title
	}
	if upd.Pinned != nil {
		comp.Pinned = *upd.Pinned
	}
	if upd.EventIDs != nil {
		comp.EventIDs = upd.EventIDs
	}
	events, err := s.resolveEvents(ctx, comp.EventIDs)
	if err != nil {
		return nil, err
	}
	if err := s.compilationRepo.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("update compilation: %w", err)
	}
	return &domain.CompilationWithEvents{Compilation: comp, Events: events}, nil
}

func (s *compilationService) DeleteCompilation(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.compilationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete compilation: %w", err)
	}
	return nil
}

func (s *compilationService) ListCompilations(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comps, err := s.compilationRepo.List(ctx, pinned, params)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	result := make([]*domain.CompilationWithEvents, 0, len(comps))
	for _, comp := range comps {
		events, err := s.resolveEvents(ctx, comp.EventIDs)
		if err != nil {
			return nil, err
		}
		result = append(result, &domain.CompilationWithEvents{Compilation: comp, Events: events})
	}
	return result, nil
}

func (s *compilationService) GetCompilation(ctx context.Context, id string) (*domain.CompilationWithEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comp, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get compilation: %w", err)
	}
	events, err := s.resolveEvents(ctx, comp.EventIDs)
	if err != nil {
		return nil, err
	}
	return &domain.CompilationWithEvents{Compilation: comp, Events: events}, nil
}

// resolveEvents loads the referenced events and fails with NotFound when any
// id does not resolve.
func (s *compilationService) resolveEvents(ctx context.Context, eventIDs []string) ([]*domain.Event, error) {
	if len(eventIDs) == 0 {
		return []*domain.Event{}, nil
	}
	events, err := s.eventRepo.ListByIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list compilation events: %w", err)
	}
	if len(events) != len(dedupe(eventIDs)) {
		return nil, domain.ErrNotFound
	}
	return events, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
