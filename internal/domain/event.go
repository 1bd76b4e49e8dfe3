package domain

import (
	"context"
	"time"
)

// EventState is the moderation state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// State actions an initiator may request on their own event.
type UserStateAction string

const (
	ActionSendToReview UserStateAction = "SEND_TO_REVIEW"
	ActionCancelReview UserStateAction = "CANCEL_REVIEW"
)

// State actions an administrator may apply to an event.
type AdminStateAction string

const (
	ActionPublishEvent AdminStateAction = "PUBLISH_EVENT"
	ActionRejectEvent  AdminStateAction = "REJECT_EVENT"
)

// Event represents an event listing. ParticipantLimit == 0 means unlimited
// participation; when RequestModeration is false, participation requests are
// confirmed automatically on creation.
// swagger:model Event
type Event struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	CategoryID        string     `json:"category_id"`
	InitiatorID       string     `json:"initiator_id"`
	State             EventState `json:"state"`
	ParticipantLimit  int        `json:"participant_limit"`
	RequestModeration bool       `json:"request_moderation"`
	Paid              bool       `json:"paid"`
	EventDate         time.Time  `json:"event_date"`
	PublishedOn       *time.Time `json:"published_on,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// EventWithStats bundles an event with its derived view and confirmation counts.
type EventWithStats struct {
	Event             *Event `json:"event"`
	ConfirmedRequests int64  `json:"confirmed_requests"`
	Views             int64  `json:"views"`
}

// NewEventInput carries the fields needed to create an event.
type NewEventInput struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        string
	ParticipantLimit  int
	RequestModeration bool
	Paid              bool
	EventDate         time.Time
}

// EventUpdate is a partial update: nil fields are left unchanged.
type EventUpdate struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *string
	ParticipantLimit  *int
	RequestModeration *bool
	Paid              *bool
	EventDate         *time.Time
}

// AdminEventFilter holds the admin search criteria.
type AdminEventFilter struct {
	InitiatorIDs []string
	States       []EventState
	CategoryIDs  []string
	RangeStart   *time.Time
	RangeEnd     *time.Time
	Pagination   PaginationParams
}

// PublicEventFilter holds the public search criteria. Text matches title and
// annotation case-insensitively.
type PublicEventFilter struct {
	Text          string
	CategoryIDs   []string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Pagination    PaginationParams
}

// EventRepository defines the interface for event storage.
// GetByIDForUpdate must be called inside a transaction started with
// RequestRepository.WithTx; it locks the event row so capacity decisions on
// the same event are serialized.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	GetByInitiatorAndID(ctx context.Context, initiatorID, id string) (*Event, error)
	GetByIDAndState(ctx context.Context, id string, state EventState) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID string, params PaginationParams) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Event, error)
	SearchAdmin(ctx context.Context, filter AdminEventFilter) ([]*Event, error)
	SearchPublished(ctx context.Context, filter PublicEventFilter) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	ExistsByCategory(ctx context.Context, categoryID string) (bool, error)
}

// EventService defines event lifecycle operations and reads.
type EventService interface {
	CreateEvent(ctx context.Context, initiatorID string, in NewEventInput) (*Event, error)
	ListUserEvents(ctx context.Context, userID string, params PaginationParams) ([]*Event, error)
	GetUserEvent(ctx context.Context, userID, eventID string) (*Event, error)
	UpdateUserEvent(ctx context.Context, userID, eventID string, upd EventUpdate, action *UserStateAction) (*Event, error)
	SearchAdminEvents(ctx context.Context, filter AdminEventFilter) ([]*Event, error)
	UpdateAdminEvent(ctx context.Context, eventID string, upd EventUpdate, action *AdminStateAction) (*Event, error)
	GetPublishedEvent(ctx context.Context, eventID string) (*EventWithStats, error)
	SearchPublishedEvents(ctx context.Context, filter PublicEventFilter) ([]*EventWithStats, error)
}
