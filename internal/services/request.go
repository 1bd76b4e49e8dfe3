package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlisting/internal/domain"
)

type requestService struct {
	requestRepo    domain.RequestRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	notifier       domain.RequestNotifier
	contextTimeout time.Duration
}

// NewRequestService creates a RequestService with the given repositories.
// The notifier is optional; pass nil to disable moderation-outcome emails.
func NewRequestService(
	requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	notifier domain.RequestNotifier,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		contextTimeout: timeout,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, requesterID, eventID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get requester: %w", err)
	}

	var created *domain.ParticipationRequest
	err := s.requestRepo.WithTx(ctx, func(ctx context.Context) error {
		// Lock the event row so the limit check and the insert are atomic
		// with respect to concurrent creations and moderation batches.
		event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.InitiatorID == requesterID {
			return domain.ErrSelfParticipation
		}
		if event.State != domain.EventStatePublished {
			return domain.ErrEventNotPublished
		}
		exists, err := s.requestRepo.ExistsActiveByRequesterAndEvent(ctx, requesterID, eventID)
		if err != nil {
			return fmt.Errorf("check duplicate request: %w", err)
		}
		if exists {
			return domain.ErrDuplicateRequest
		}
		if event.ParticipantLimit > 0 {
			confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
			if err != nil {
				return fmt.Errorf("count confirmed requests: %w", err)
			}
			if confirmed >= int64(event.ParticipantLimit) {
				return domain.ErrParticipantLimitReached
			}
		}

		// The limit is validated above even when no moderation is required,
		// so an auto-confirming request cannot slip past a full event.
		status := domain.RequestStatusPending
		if event.ParticipantLimit == 0 || !event.RequestModeration {
			status = domain.RequestStatusConfirmed
		}

		req := domain.NewParticipationRequest(eventID, requesterID, status, time.Now())
		if err := s.requestRepo.Create(ctx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *requestService) CancelRequest(ctx context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var canceled *domain.ParticipationRequest
	err := s.requestRepo.WithTx(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetByIDAndRequester(ctx, requestID, requesterID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get request: %w", err)
		}
		if req.Status != domain.RequestStatusPending {
			return domain.ErrRequestNotCancelable
		}
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, domain.RequestStatusCanceled); err != nil {
			return fmt.Errorf("cancel request: %w", err)
		}
		req.Status = domain.RequestStatusCanceled
		canceled = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canceled, nil
}

func (s *requestService) ListUserRequests(ctx context.Context, userID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	reqs, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

func (s *requestService) ListEventRequests(ctx context.Context, initiatorID, eventID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByInitiatorAndID(ctx, initiatorID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	reqs, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

func (s *requestService) UpdateRequestsStatus(ctx context.Context, initiatorID, eventID string, requestIDs []string, target domain.RequestStatus) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if target != domain.RequestStatusConfirmed && target != domain.RequestStatusRejected {
		return nil, domain.ErrInvalidInput
	}

	result := &domain.StatusUpdateResult{
		Confirmed: []*domain.ParticipationRequest{},
		Rejected:  []*domain.ParticipationRequest{},
	}
	var eventTitle string

	err := s.requestRepo.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.InitiatorID != initiatorID {
			return domain.ErrNotFound
		}
		if !event.RequestModeration || event.ParticipantLimit == 0 {
			return domain.ErrNoModerationRequired
		}
		eventTitle = event.Title

		requests, err := s.resolveBatch(ctx, eventID, requestIDs)
		if err != nil {
			return err
		}

		if target == domain.RequestStatusRejected {
			for _, req := range requests {
				if err := s.reject(ctx, req, result); err != nil {
					return err
				}
			}
			return nil
		}

		// Fresh count inside the transaction; the event row lock keeps it
		// stable until commit.
		confirmedCount, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed requests: %w", err)
		}
		available := int64(event.ParticipantLimit) - confirmedCount
		if available <= 0 {
			return domain.ErrParticipantLimitReached
		}

		toConfirm := int(min(available, int64(len(requests))))

		// First-listed-wins: the caller's order decides who gets the last
		// open seats.
		for i := 0; i < toConfirm; i++ {
			req := requests[i]
			if err := s.requestRepo.UpdateStatus(ctx, req.ID, domain.RequestStatusConfirmed); err != nil {
				return fmt.Errorf("confirm request %s: %w", req.ID, err)
			}
			req.Status = domain.RequestStatusConfirmed
			result.Confirmed = append(result.Confirmed, req)
		}
		for i := toConfirm; i < len(requests); i++ {
			if err := s.reject(ctx, requests[i], result); err != nil {
				return err
			}
		}

		// Once the batch exactly fills the remaining capacity, close out
		// every other pending request so no phantom capacity lingers.
		if available == int64(toConfirm) {
			processed := make([]string, 0, len(requests))
			for _, req := range requests {
				processed = append(processed, req.ID)
			}
			others, err := s.requestRepo.ListPendingByEventExcluding(ctx, eventID, processed)
			if err != nil {
				return fmt.Errorf("list other pending requests: %w", err)
			}
			for _, req := range others {
				if err := s.reject(ctx, req, result); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyOutcome(ctx, eventTitle, result)
	return result, nil
}

// resolveBatch loads the requests from the id list that belong to the event,
// preserving the caller-supplied order, and verifies they are all pending.
// Ids that resolve to no record for this event are ignored.
func (s *requestService) resolveBatch(ctx context.Context, eventID string, requestIDs []string) ([]*domain.ParticipationRequest, error) {
	found, err := s.requestRepo.ListByEventAndIDs(ctx, eventID, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve requests: %w", err)
	}
	byID := make(map[string]*domain.ParticipationRequest, len(found))
	for _, req := range found {
		byID[req.ID] = req
	}
	ordered := make([]*domain.ParticipationRequest, 0, len(found))
	for _, id := range requestIDs {
		req, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		if req.Status != domain.RequestStatusPending {
			return nil, domain.ErrRequestNotPending
		}
		ordered = append(ordered, req)
	}
	return ordered, nil
}

func (s *requestService) reject(ctx context.Context, req *domain.ParticipationRequest, result *domain.StatusUpdateResult) error {
	if err := s.requestRepo.UpdateStatus(ctx, req.ID, domain.RequestStatusRejected); err != nil {
		return fmt.Errorf("reject request %s: %w", req.ID, err)
	}
	req.Status = domain.RequestStatusRejected
	result.Rejected = append(result.Rejected, req)
	return nil
}

// notifyOutcome emails each affected requester after the transaction has
// committed. Failures are the notifier's problem; they never reach the caller.
func (s *requestService) notifyOutcome(ctx context.Context, eventTitle string, result *domain.StatusUpdateResult) {
	if s.notifier == nil {
		return
	}
	all := make([]*domain.ParticipationRequest, 0, len(result.Confirmed)+len(result.Rejected))
	all = append(all, result.Confirmed...)
	all = append(all, result.Rejected...)
	for _, req := range all {
		user, err := s.userRepo.GetByID(ctx, req.RequesterID)
		if err != nil {
			continue
		}
		s.notifier.NotifyRequestStatus(ctx, &domain.RequestStatusEmailData{
			Email:      user.Email,
			UserName:   user.Name,
			EventTitle: eventTitle,
			Status:     req.Status,
		})
	}
}
