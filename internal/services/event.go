package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventlisting/internal/domain"
)

// Events may not be scheduled (or rescheduled) closer than this to now.
const minHoursBeforeEvent = 2

// distantPast is the fallback lower bound for view-stats queries when no
// event in the set has been published yet.
var distantPast = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	categoryRepo   domain.CategoryRepository
	requestRepo    domain.RequestRepository
	stats          domain.StatsClient
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	categoryRepo domain.CategoryRepository,
	requestRepo domain.RequestRepository,
	stats domain.StatsClient,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		requestRepo:    requestRepo,
		stats:          stats,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, initiatorID string, in domain.NewEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get initiator: %w", err)
	}
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if err := validateEventDate(in.EventDate); err != nil {
		return nil, err
	}
	if in.ParticipantLimit < 0 {
		return nil, fmt.Errorf("participant limit must not be negative: %w", domain.ErrInvalidInput)
	}

	event := &domain.Event{
		Title:             in.Title,
		Annotation:        in.Annotation,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		InitiatorID:       initiatorID,
		State:             domain.EventStatePending,
		ParticipantLimit:  in.ParticipantLimit,
		RequestModeration: in.RequestModeration,
		Paid:              in.Paid,
		EventDate:         in.EventDate,
		CreatedAt:         time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListUserEvents(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	events, err := s.eventRepo.ListByInitiator(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetUserEvent(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByInitiatorAndID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateUserEvent(ctx context.Context, userID, eventID string, upd domain.EventUpdate, action *domain.UserStateAction) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByInitiatorAndID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.EventStatePending && event.State != domain.EventStateCanceled {
		return nil, domain.ErrEventNotEditable
	}
	if err := s.applyUpdate(ctx, event, upd); err != nil {
		return nil, err
	}
	if action != nil {
		switch *action {
		case domain.ActionSendToReview:
			event.State = domain.EventStatePending
		case domain.ActionCancelReview:
			event.State = domain.EventStateCanceled
		default:
			return nil, fmt.Errorf("unknown state action %q: %w", *action, domain.ErrInvalidInput)
		}
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) SearchAdminEvents(ctx context.Context, filter domain.AdminEventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.SearchAdmin(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateAdminEvent(ctx context.Context, eventID string, upd domain.EventUpdate, action *domain.AdminStateAction) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.applyUpdate(ctx, event, upd); err != nil {
		return nil, err
	}
	if action != nil {
		switch *action {
		case domain.ActionPublishEvent:
			if event.State != domain.EventStatePending {
				return nil, domain.ErrEventNotPending
			}
			now := time.Now()
			event.State = domain.EventStatePublished
			event.PublishedOn = &now
		case domain.ActionRejectEvent:
			if event.State == domain.EventStatePublished {
				return nil, domain.ErrEventAlreadyPublished
			}
			event.State = domain.EventStateCanceled
		default:
			return nil, fmt.Errorf("unknown state action %q: %w", *action, domain.ErrInvalidInput)
		}
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetPublishedEvent(ctx context.Context, eventID string) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByIDAndState(ctx, eventID, domain.EventStatePublished)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	views := s.viewsFor(ctx, []*domain.Event{event})
	return &domain.EventWithStats{
		Event:             event,
		ConfirmedRequests: confirmed,
		Views:             views[event.ID],
	}, nil
}

func (s *eventService) SearchPublishedEvents(ctx context.Context, filter domain.PublicEventFilter) ([]*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.SearchPublished(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if len(events) == 0 {
		return []*domain.EventWithStats{}, nil
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	confirmedMap, err := s.requestRepo.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}

	if filter.OnlyAvailable {
		filtered := events[:0]
		for _, e := range events {
			if e.ParticipantLimit == 0 || confirmedMap[e.ID] < int64(e.ParticipantLimit) {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	views := s.viewsFor(ctx, events)
	result := make([]*domain.EventWithStats, 0, len(events))
	for _, e := range events {
		result = append(result, &domain.EventWithStats{
			Event:             e,
			ConfirmedRequests: confirmedMap[e.ID],
			Views:             views[e.ID],
		})
	}
	return result, nil
}

// viewsFor asks the stats service for unique view counts per event URI.
// Stats are best-effort: on failure every event simply reports zero views.
func (s *eventService) viewsFor(ctx context.Context, events []*domain.Event) map[string]int64 {
	if s.stats == nil || len(events) == 0 {
		return map[string]int64{}
	}
	uris := make([]string, 0, len(events))
	start := distantPast
	for _, e := range events {
		uris = append(uris, "/events/"+e.ID)
		if e.PublishedOn != nil && (start.Equal(distantPast) || e.PublishedOn.Before(start)) {
			start = *e.PublishedOn
		}
	}
	stats, err := s.stats.GetStats(ctx, start, time.Now(), uris, true)
	if err != nil {
		return map[string]int64{}
	}
	views := make(map[string]int64, len(stats))
	for _, st := range stats {
		id, ok := strings.CutPrefix(st.URI, "/events/")
		if !ok || id == "" {
			continue
		}
		views[id] = st.Hits
	}
	return views
}

func (s *eventService) applyUpdate(ctx context.Context, event *domain.Event, upd domain.EventUpdate) error {
	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Annotation != nil {
		event.Annotation = *upd.Annotation
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Paid != nil {
		event.Paid = *upd.Paid
	}
	if upd.ParticipantLimit != nil {
		if *upd.ParticipantLimit < 0 {
			return fmt.Errorf("participant limit must not be negative: %w", domain.ErrInvalidInput)
		}
		event.ParticipantLimit = *upd.ParticipantLimit
	}
	if upd.RequestModeration != nil {
		event.RequestModeration = *upd.RequestModeration
	}
	if upd.EventDate != nil {
		if err := validateEventDate(*upd.EventDate); err != nil {
			return err
		}
		event.EventDate = *upd.EventDate
	}
	if upd.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *upd.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get category: %w", err)
		}
		event.CategoryID = *upd.CategoryID
	}
	return nil
}

func validateEventDate(date time.Time) error {
	if date.Before(time.Now().Add(minHoursBeforeEvent * time.Hour)) {
		return fmt.Errorf("event date must be at least %d hours in the future: %w", minHoursBeforeEvent, domain.ErrInvalidInput)
	}
	return nil
}
