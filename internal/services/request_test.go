package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventlisting/internal/domain"
)

func testUsers(ids ...string) map[string]*domain.User {
	users := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		users[id] = &domain.User{ID: id, Email: id + "@example.com", Name: id}
	}
	return users
}

func publishedEvent(id, initiatorID string, limit int, moderation bool) *domain.Event {
	published := time.Now().Add(-time.Hour)
	return &domain.Event{
		ID:                id,
		Title:             "Event " + id,
		InitiatorID:       initiatorID,
		State:             domain.EventStatePublished,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		EventDate:         time.Now().Add(24 * time.Hour),
		PublishedOn:       &published,
	}
}

func pendingReq(id, eventID, requesterID string) *domain.ParticipationRequest {
	return &domain.ParticipationRequest{
		ID:          id,
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      domain.RequestStatusPending,
		CreatedAt:   time.Now(),
	}
}

func newRequestService(reqRepo *mockRequestRepo, eventRepo *mockEventRepo, userRepo *mockUserRepo, notifier *mockNotifier) domain.RequestService {
	var n domain.RequestNotifier
	if notifier != nil {
		n = notifier
	}
	return NewRequestService(reqRepo, eventRepo, userRepo, n, time.Second)
}

func TestRequestService_CreateRequest(t *testing.T) {
	tests := []struct {
		name       string
		event      *domain.Event
		existing   []*domain.ParticipationRequest
		requester  string
		wantStatus domain.RequestStatus
		wantErr    error
	}{
		{
			name:       "auto-confirmed when no limit",
			event:      publishedEvent("e1", "owner", 0, true),
			requester:  "u1",
			wantStatus: domain.RequestStatusConfirmed,
		},
		{
			name:       "auto-confirmed when moderation disabled",
			event:      publishedEvent("e1", "owner", 10, false),
			requester:  "u1",
			wantStatus: domain.RequestStatusConfirmed,
		},
		{
			name:       "pending when moderated with limit",
			event:      publishedEvent("e1", "owner", 10, true),
			requester:  "u1",
			wantStatus: domain.RequestStatusPending,
		},
		{
			name:      "initiator cannot join own event",
			event:     publishedEvent("e1", "u1", 0, true),
			requester: "u1",
			wantErr:   domain.ErrSelfParticipation,
		},
		{
			name: "unpublished event refused",
			event: &domain.Event{
				ID: "e1", InitiatorID: "owner", State: domain.EventStatePending,
			},
			requester: "u1",
			wantErr:   domain.ErrEventNotPublished,
		},
		{
			name:      "duplicate active request refused",
			event:     publishedEvent("e1", "owner", 0, true),
			existing:  []*domain.ParticipationRequest{pendingReq("req-old", "e1", "u1")},
			requester: "u1",
			wantErr:   domain.ErrDuplicateRequest,
		},
		{
			name:  "new request allowed after cancellation",
			event: publishedEvent("e1", "owner", 0, true),
			existing: []*domain.ParticipationRequest{
				{ID: "req-old", EventID: "e1", RequesterID: "u1", Status: domain.RequestStatusCanceled},
			},
			requester:  "u1",
			wantStatus: domain.RequestStatusConfirmed,
		},
		{
			name:  "full event refused even without moderation",
			event: publishedEvent("e1", "owner", 1, false),
			existing: []*domain.ParticipationRequest{
				{ID: "req-a", EventID: "e1", RequesterID: "u2", Status: domain.RequestStatusConfirmed},
			},
			requester: "u1",
			wantErr:   domain.ErrParticipantLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{users: testUsers("u1", "u2", "owner")}
			eventRepo := &mockEventRepo{events: map[string]*domain.Event{tt.event.ID: tt.event}}
			reqRepo := newMockRequestRepo(tt.existing...)
			svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

			got, err := svc.CreateRequest(context.Background(), tt.requester, tt.event.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, domain.ErrConflict) {
					t.Fatalf("expected a conflict error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("expected status %s, got %s", tt.wantStatus, got.Status)
			}
			if got.ID == "" {
				t.Fatal("expected an assigned request id")
			}
		})
	}
}

func TestRequestService_CreateRequest_UnknownRequester(t *testing.T) {
	userRepo := &mockUserRepo{users: testUsers("owner")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{
		"e1": publishedEvent("e1", "owner", 0, true),
	}}
	svc := newRequestService(newMockRequestRepo(), eventRepo, userRepo, nil)

	_, err := svc.CreateRequest(context.Background(), "ghost", "e1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestService_CancelRequest(t *testing.T) {
	tests := []struct {
		name    string
		request *domain.ParticipationRequest
		wantErr error
	}{
		{
			name:    "pending request canceled",
			request: pendingReq("req-1", "e1", "u1"),
		},
		{
			name: "confirmed request cannot be canceled",
			request: &domain.ParticipationRequest{
				ID: "req-1", EventID: "e1", RequesterID: "u1",
				Status: domain.RequestStatusConfirmed,
			},
			wantErr: domain.ErrRequestNotCancelable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{users: testUsers("u1")}
			eventRepo := &mockEventRepo{events: map[string]*domain.Event{}}
			reqRepo := newMockRequestRepo(tt.request)
			svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

			got, err := svc.CancelRequest(context.Background(), "u1", tt.request.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if reqRepo.requests[tt.request.ID].Status == domain.RequestStatusCanceled {
					t.Fatal("request must not be canceled on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != domain.RequestStatusCanceled {
				t.Fatalf("expected CANCELED, got %s", got.Status)
			}
		})
	}
}

func TestRequestService_CancelRequest_WrongRequester(t *testing.T) {
	userRepo := &mockUserRepo{users: testUsers("u1", "u2")}
	reqRepo := newMockRequestRepo(pendingReq("req-1", "e1", "u1"))
	svc := newRequestService(reqRepo, &mockEventRepo{events: map[string]*domain.Event{}}, userRepo, nil)

	_, err := svc.CancelRequest(context.Background(), "u2", "req-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestService_UpdateRequestsStatus_ConfirmWithOverflow(t *testing.T) {
	// Limit 2, no confirmations yet: [A, B, C] confirms A and B, rejects C,
	// and cascade-rejects the out-of-batch pending request D.
	event := publishedEvent("e1", "owner", 2, true)
	reqRepo := newMockRequestRepo(
		pendingReq("req-a", "e1", "u1"),
		pendingReq("req-b", "e1", "u2"),
		pendingReq("req-c", "e1", "u3"),
		pendingReq("req-d", "e1", "u4"),
	)
	userRepo := &mockUserRepo{users: testUsers("owner", "u1", "u2", "u3", "u4")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	notifier := &mockNotifier{}
	svc := newRequestService(reqRepo, eventRepo, userRepo, notifier)

	result, err := svc.UpdateRequestsStatus(context.Background(), "owner", "e1",
		[]string{"req-a", "req-b", "req-c"}, domain.RequestStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Confirmed) != 2 {
		t.Fatalf("expected 2 confirmed, got %d", len(result.Confirmed))
	}
	if result.Confirmed[0].ID != "req-a" || result.Confirmed[1].ID != "req-b" {
		t.Fatalf("confirmation must follow caller order, got %s then %s",
			result.Confirmed[0].ID, result.Confirmed[1].ID)
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("expected 2 rejected (overflow + cascade), got %d", len(result.Rejected))
	}
	if result.Rejected[0].ID != "req-c" || result.Rejected[1].ID != "req-d" {
		t.Fatalf("expected req-c then cascade req-d, got %s then %s",
			result.Rejected[0].ID, result.Rejected[1].ID)
	}
	if reqRepo.requests["req-d"].Status != domain.RequestStatusRejected {
		t.Fatal("out-of-batch pending request must be cascade-rejected")
	}
	if len(notifier.sent) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(notifier.sent))
	}
}

func TestRequestService_UpdateRequestsStatus_NoCascadeWithSpareCapacity(t *testing.T) {
	// Limit 5, batch of 2: capacity remains, so pending request C stays pending.
	event := publishedEvent("e1", "owner", 5, true)
	reqRepo := newMockRequestRepo(
		pendingReq("req-a", "e1", "u1"),
		pendingReq("req-b", "e1", "u2"),
		pendingReq("req-c", "e1", "u3"),
	)
	userRepo := &mockUserRepo{users: testUsers("owner", "u1", "u2", "u3")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

	result, err := svc.UpdateRequestsStatus(context.Background(), "owner", "e1",
		[]string{"req-a", "req-b"}, domain.RequestStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Confirmed) != 2 || len(result.Rejected) != 0 {
		t.Fatalf("expected 2 confirmed and 0 rejected, got %d/%d",
			len(result.Confirmed), len(result.Rejected))
	}
	if reqRepo.requests["req-c"].Status != domain.RequestStatusPending {
		t.Fatal("request outside the batch must stay pending while capacity remains")
	}
}

func TestRequestService_UpdateRequestsStatus_RejectBatch(t *testing.T) {
	event := publishedEvent("e1", "owner", 2, true)
	reqRepo := newMockRequestRepo(
		pendingReq("req-a", "e1", "u1"),
		pendingReq("req-b", "e1", "u2"),
	)
	userRepo := &mockUserRepo{users: testUsers("owner", "u1", "u2")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

	result, err := svc.UpdateRequestsStatus(context.Background(), "owner", "e1",
		[]string{"req-b", "req-a"}, domain.RequestStatusRejected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Confirmed) != 0 || len(result.Rejected) != 2 {
		t.Fatalf("expected 0 confirmed and 2 rejected, got %d/%d",
			len(result.Confirmed), len(result.Rejected))
	}
	if result.Rejected[0].ID != "req-b" {
		t.Fatal("rejection must follow caller order")
	}
}

func TestRequestService_UpdateRequestsStatus_NonPendingBatchFails(t *testing.T) {
	event := publishedEvent("e1", "owner", 5, true)
	confirmed := &domain.ParticipationRequest{
		ID: "req-b", EventID: "e1", RequesterID: "u2",
		Status: domain.RequestStatusConfirmed,
	}
	reqRepo := newMockRequestRepo(pendingReq("req-a", "e1", "u1"), confirmed)
	userRepo := &mockUserRepo{users: testUsers("owner", "u1", "u2")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

	_, err := svc.UpdateRequestsStatus(context.Background(), "owner", "e1",
		[]string{"req-a", "req-b"}, domain.RequestStatusConfirmed)
	if !errors.Is(err, domain.ErrRequestNotPending) {
		t.Fatalf("expected pending-only conflict, got %v", err)
	}
	if reqRepo.requests["req-a"].Status != domain.RequestStatusPending {
		t.Fatal("no request may be mutated when the batch check fails")
	}
}

func TestRequestService_UpdateRequestsStatus_LimitReached(t *testing.T) {
	event := publishedEvent("e1", "owner", 1, true)
	reqRepo := newMockRequestRepo(
		&domain.ParticipationRequest{ID: "req-a", EventID: "e1", RequesterID: "u1", Status: domain.RequestStatusConfirmed},
		pendingReq("req-b", "e1", "u2"),
	)
	userRepo := &mockUserRepo{users: testUsers("owner", "u1", "u2")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

	// Repeated attempts fail identically; nothing is mutated.
	for i := 0; i < 2; i++ {
		_, err := svc.UpdateRequestsStatus(context.Background(), "owner", "e1",
			[]string{"req-b"}, domain.RequestStatusConfirmed)
		if !errors.Is(err, domain.ErrParticipantLimitReached) {
			t.Fatalf("attempt %d: expected limit conflict, got %v", i+1, err)
		}
		if reqRepo.requests["req-b"].Status != domain.RequestStatusPending {
			t.Fatalf("attempt %d: pending request must not be mutated", i+1)
		}
	}
}

func TestRequestService_UpdateRequestsStatus_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		event     *domain.Event
		initiator string
		target    domain.RequestStatus
		wantErr   error
	}{
		{
			name:      "invalid target status",
			event:     publishedEvent("e1", "owner", 2, true),
			initiator: "owner",
			target:    domain.RequestStatusCanceled,
			wantErr:   domain.ErrInvalidInput,
		},
		{
			name:      "foreign event looks like not found",
			event:     publishedEvent("e1", "owner", 2, true),
			initiator: "u1",
			target:    domain.RequestStatusConfirmed,
			wantErr:   domain.ErrNotFound,
		},
		{
			name:      "unmoderated event needs no moderation",
			event:     publishedEvent("e1", "owner", 2, false),
			initiator: "owner",
			target:    domain.RequestStatusConfirmed,
			wantErr:   domain.ErrNoModerationRequired,
		},
		{
			name:      "unlimited event needs no moderation",
			event:     publishedEvent("e1", "owner", 0, true),
			initiator: "owner",
			target:    domain.RequestStatusConfirmed,
			wantErr:   domain.ErrNoModerationRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{users: testUsers("owner", "u1")}
			eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": tt.event}}
			reqRepo := newMockRequestRepo(pendingReq("req-a", "e1", "u1"))
			svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

			_, err := svc.UpdateRequestsStatus(context.Background(), tt.initiator, "e1",
				[]string{"req-a"}, tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRequestService_ListEventRequests(t *testing.T) {
	event := publishedEvent("e1", "owner", 2, true)
	reqRepo := newMockRequestRepo(
		pendingReq("req-a", "e1", "u1"),
		pendingReq("req-b", "e2", "u2"),
	)
	userRepo := &mockUserRepo{users: testUsers("owner", "u1", "u2")}
	eventRepo := &mockEventRepo{events: map[string]*domain.Event{"e1": event}}
	svc := newRequestService(reqRepo, eventRepo, userRepo, nil)

	got, err := svc.ListEventRequests(context.Background(), "owner", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "req-a" {
		t.Fatalf("expected only req-a, got %v", got)
	}

	if _, err := svc.ListEventRequests(context.Background(), "u1", "e1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign event must look like not found, got %v", err)
	}
}

func TestRequestService_ListUserRequests(t *testing.T) {
	reqRepo := newMockRequestRepo(
		pendingReq("req-a", "e1", "u1"),
		pendingReq("req-b", "e2", "u1"),
		pendingReq("req-c", "e1", "u2"),
	)
	userRepo := &mockUserRepo{users: testUsers("u1", "u2")}
	svc := newRequestService(reqRepo, &mockEventRepo{events: map[string]*domain.Event{}}, userRepo, nil)

	got, err := svc.ListUserRequests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}

	if _, err := svc.ListUserRequests(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user must be not found, got %v", err)
	}
}
