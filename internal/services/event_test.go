package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventlisting/internal/domain"
)

func newEventService(eventRepo *mockEventRepo, userRepo *mockUserRepo, categoryRepo *mockCategoryRepo, reqRepo *mockRequestRepo, stats *mockStatsClient) domain.EventService {
	var sc domain.StatsClient
	if stats != nil {
		sc = stats
	}
	return NewEventService(eventRepo, userRepo, categoryRepo, reqRepo, sc, time.Second)
}

func defaultCategories() map[string]*domain.Category {
	return map[string]*domain.Category{
		"cat-1": {ID: "cat-1", Name: "Concerts"},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.NewEventInput
		wantErr error
	}{
		{
			name: "success",
			input: domain.NewEventInput{
				Title:      "Meetup",
				Annotation: "short",
				CategoryID: "cat-1",
				EventDate:  time.Now().Add(3 * time.Hour),
			},
		},
		{
			name: "event date too soon",
			input: domain.NewEventInput{
				Title:      "Meetup",
				Annotation: "short",
				CategoryID: "cat-1",
				EventDate:  time.Now().Add(time.Hour),
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "negative participant limit",
			input: domain.NewEventInput{
				Title:            "Meetup",
				Annotation:       "short",
				CategoryID:       "cat-1",
				ParticipantLimit: -1,
				EventDate:        time.Now().Add(3 * time.Hour),
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown category",
			input: domain.NewEventInput{
				Title:      "Meetup",
				Annotation: "short",
				CategoryID: "cat-missing",
				EventDate:  time.Now().Add(3 * time.Hour),
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{users: testUsers("u1")}
			categoryRepo := &mockCategoryRepo{categories: defaultCategories()}
			eventRepo := &mockEventRepo{events: map[string]*domain.Event{}}
			svc := newEventService(eventRepo, userRepo, categoryRepo, newMockRequestRepo(), nil)

			got, err := svc.CreateEvent(context.Background(), "u1", tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.State != domain.EventStatePending {
				t.Fatalf("new events must start PENDING, got %s", got.State)
			}
			if got.PublishedOn != nil {
				t.Fatal("new events must not carry a publication timestamp")
			}
		})
	}
}

func TestEventService_UpdateUserEvent(t *testing.T) {
	futureDate := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name      string
		state     domain.EventState
		action    *domain.UserStateAction
		wantState domain.EventState
		wantErr   error
	}{
		{
			name:      "pending event editable",
			state:     domain.EventStatePending,
			wantState: domain.EventStatePending,
		},
		{
			name:      "canceled event sent back to review",
			state:     domain.EventStateCanceled,
			action:    actionPtr(domain.ActionSendToReview),
			wantState: domain.EventStatePending,
		},
		{
			name:      "pending event review canceled",
			state:     domain.EventStatePending,
			action:    actionPtr(domain.ActionCancelReview),
			wantState: domain.EventStateCanceled,
		},
		{
			name:    "published event not editable",
			state:   domain.EventStatePublished,
			wantErr: domain.ErrEventNotEditable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &domain.Event{
				ID: "e1", InitiatorID: "u1", State: tt.state,
				CategoryID: "cat-1", EventDate: futureDate,
			}
			userRepo := &mockUserRepo{users: testUsers("u1")}
			categoryRepo := &mockCategoryRepo{categories: defaultCategories()}
			eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
			svc := newEventService(eventRepo, userRepo, categoryRepo, newMockRequestRepo(), nil)

			title := "New title"
			got, err := svc.UpdateUserEvent(context.Background(), "u1", "e1",
				domain.EventUpdate{Title: &title}, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, domain.ErrConflict) {
					t.Fatalf("expected a conflict error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != "New title" {
				t.Fatalf("title not applied: %q", got.Title)
			}
			if got.State != tt.wantState {
				t.Fatalf("expected state %s, got %s", tt.wantState, got.State)
			}
		})
	}
}

func TestEventService_UpdateUserEvent_ForeignEvent(t *testing.T) {
	event := &domain.Event{ID: "e1", InitiatorID: "u1", State: domain.EventStatePending}
	userRepo := &mockUserRepo{users: testUsers("u1", "u2")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newEventService(eventRepo, userRepo, &mockCategoryRepo{categories: defaultCategories()}, newMockRequestRepo(), nil)

	_, err := svc.UpdateUserEvent(context.Background(), "u2", "e1", domain.EventUpdate{}, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEventService_UpdateAdminEvent(t *testing.T) {
	tests := []struct {
		name        string
		state       domain.EventState
		action      domain.AdminStateAction
		wantState   domain.EventState
		wantStamped bool
		wantErr     error
	}{
		{
			name:        "publish pending event",
			state:       domain.EventStatePending,
			action:      domain.ActionPublishEvent,
			wantState:   domain.EventStatePublished,
			wantStamped: true,
		},
		{
			name:    "publish canceled event refused",
			state:   domain.EventStateCanceled,
			action:  domain.ActionPublishEvent,
			wantErr: domain.ErrEventNotPending,
		},
		{
			name:      "reject pending event",
			state:     domain.EventStatePending,
			action:    domain.ActionRejectEvent,
			wantState: domain.EventStateCanceled,
		},
		{
			name:    "reject published event refused",
			state:   domain.EventStatePublished,
			action:  domain.ActionRejectEvent,
			wantErr: domain.ErrEventAlreadyPublished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &domain.Event{
				ID: "e1", InitiatorID: "u1", State: tt.state,
				CategoryID: "cat-1", EventDate: time.Now().Add(48 * time.Hour),
			}
			eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
			svc := newEventService(eventRepo, &mockUserRepo{users: testUsers("u1")},
				&mockCategoryRepo{categories: defaultCategories()}, newMockRequestRepo(), nil)

			action := tt.action
			got, err := svc.UpdateAdminEvent(context.Background(), "e1", domain.EventUpdate{}, &action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.State != tt.wantState {
				t.Fatalf("expected state %s, got %s", tt.wantState, got.State)
			}
			if tt.wantStamped && got.PublishedOn == nil {
				t.Fatal("publishing must stamp publishedOn")
			}
		})
	}
}

func TestEventService_GetPublishedEvent(t *testing.T) {
	event := publishedEvent("e1", "u1", 10, true)
	reqRepo := newMockRequestRepo(
		&domain.ParticipationRequest{ID: "req-a", EventID: "e1", RequesterID: "u2", Status: domain.RequestStatusConfirmed},
		&domain.ParticipationRequest{ID: "req-b", EventID: "e1", RequesterID: "u3", Status: domain.RequestStatusConfirmed},
		pendingReq("req-c", "e1", "u4"),
	)
	stats := &mockStatsClient{stats: []domain.ViewStats{{App: "main", URI: "/events/e1", Hits: 42}}}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newEventService(eventRepo, &mockUserRepo{users: testUsers("u1")},
		&mockCategoryRepo{categories: defaultCategories()}, reqRepo, stats)

	got, err := svc.GetPublishedEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ConfirmedRequests != 2 {
		t.Fatalf("expected 2 confirmed requests, got %d", got.ConfirmedRequests)
	}
	if got.Views != 42 {
		t.Fatalf("expected 42 views, got %d", got.Views)
	}
}

func TestEventService_GetPublishedEvent_HidesUnpublished(t *testing.T) {
	event := &domain.Event{ID: "e1", InitiatorID: "u1", State: domain.EventStatePending}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newEventService(eventRepo, &mockUserRepo{users: testUsers("u1")},
		&mockCategoryRepo{categories: defaultCategories()}, newMockRequestRepo(), nil)

	if _, err := svc.GetPublishedEvent(context.Background(), "e1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("pending event must not be visible publicly, got %v", err)
	}
}

func TestEventService_GetPublishedEvent_StatsFailureIgnored(t *testing.T) {
	event := publishedEvent("e1", "u1", 0, false)
	stats := &mockStatsClient{err: errors.New("stats down")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newEventService(eventRepo, &mockUserRepo{users: testUsers("u1")},
		&mockCategoryRepo{categories: defaultCategories()}, newMockRequestRepo(), stats)

	got, err := svc.GetPublishedEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("stats outage must not fail the read: %v", err)
	}
	if got.Views != 0 {
		t.Fatalf("expected 0 views on stats failure, got %d", got.Views)
	}
}

func TestEventService_SearchPublishedEvents_OnlyAvailable(t *testing.T) {
	full := publishedEvent("e1", "u1", 1, true)
	open := publishedEvent("e2", "u1", 2, true)
	unlimited := publishedEvent("e3", "u1", 0, false)
	reqRepo := newMockRequestRepo(
		&domain.ParticipationRequest{ID: "req-a", EventID: "e1", RequesterID: "u2", Status: domain.RequestStatusConfirmed},
		&domain.ParticipationRequest{ID: "req-b", EventID: "e2", RequesterID: "u2", Status: domain.RequestStatusConfirmed},
	)
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": full, "e2": open, "e3": unlimited}}
	svc := newEventService(eventRepo, &mockUserRepo{users: testUsers("u1")},
		&mockCategoryRepo{categories: defaultCategories()}, reqRepo, nil)

	got, err := svc.SearchPublishedEvents(context.Background(), domain.PublicEventFilter{OnlyAvailable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 available events, got %d", len(got))
	}
	for _, e := range got {
		if e.Event.ID == "e1" {
			t.Fatal("full event must be filtered out")
		}
	}
}

func actionPtr(a domain.UserStateAction) *domain.UserStateAction {
	return &a
}
