package domain

import (
	"context"
	"time"
)

// RequestStatus is the state of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// ParticipationRequest represents a user's request to participate in an event.
// swagger:model ParticipationRequest
type ParticipationRequest struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	RequesterID string        `json:"requester_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewParticipationRequest returns a new request. ID is set by the repository on create.
func NewParticipationRequest(eventID, requesterID string, status RequestStatus, createdAt time.Time) *ParticipationRequest {
	return &ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		CreatedAt:   createdAt,
	}
}

// StatusUpdateResult partitions a moderation batch into the requests that
// were confirmed and the ones that were rejected (including cascade
// rejections of pending requests outside the batch).
type StatusUpdateResult struct {
	Confirmed []*ParticipationRequest `json:"confirmed_requests"`
	Rejected  []*ParticipationRequest `json:"rejected_requests"`
}

// RequestRepository defines storage operations for participation requests.
//
// WithTx runs fn inside a single database transaction; repository calls made
// with the context passed to fn join that transaction. The moderation and
// creation flows rely on this together with EventRepository.GetByIDForUpdate
// to keep the capacity check and the status writes atomic per event.
type RequestRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, req *ParticipationRequest) error
	GetByIDAndRequester(ctx context.Context, id, requesterID string) (*ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID string) ([]*ParticipationRequest, error)
	ListByEventAndIDs(ctx context.Context, eventID string, ids []string) ([]*ParticipationRequest, error)
	// ListPendingByEventExcluding returns pending requests for the event whose
	// ids are not in excluded, ordered by ascending id.
	ListPendingByEventExcluding(ctx context.Context, eventID string, excluded []string) ([]*ParticipationRequest, error)
	CountByEventAndStatus(ctx context.Context, eventID string, status RequestStatus) (int64, error)
	// CountConfirmedByEvents returns confirmed-request counts keyed by event
	// id. Events with no confirmed requests are absent from the map.
	CountConfirmedByEvents(ctx context.Context, eventIDs []string) (map[string]int64, error)
	// ExistsActiveByRequesterAndEvent reports whether a non-canceled request
	// exists for the (requester, event) pair.
	ExistsActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
}

// RequestService defines participation request operations, including the
// initiator-driven moderation workflow.
type RequestService interface {
	CreateRequest(ctx context.Context, requesterID, eventID string) (*ParticipationRequest, error)
	CancelRequest(ctx context.Context, requesterID, requestID string) (*ParticipationRequest, error)
	ListUserRequests(ctx context.Context, userID string) ([]*ParticipationRequest, error)
	ListEventRequests(ctx context.Context, initiatorID, eventID string) ([]*ParticipationRequest, error)
	// UpdateRequestsStatus confirms or rejects the given pending requests in
	// the order supplied by the caller, honoring the event's participant
	// limit. Target must be RequestStatusConfirmed or RequestStatusRejected.
	UpdateRequestsStatus(ctx context.Context, initiatorID, eventID string, requestIDs []string, target RequestStatus) (*StatusUpdateResult, error)
}
