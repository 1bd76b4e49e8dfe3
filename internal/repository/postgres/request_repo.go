package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventlisting/internal/domain"
)

const requestColumns = `id, event_id, requester_id, status, created_at`

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{DB: db}
}

func (r *requestRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.DB, fn)
}

func (r *requestRepository) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (event_id, requester_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := run(ctx, r.DB).QueryRowContext(ctx, query, req.EventID, req.RequesterID, req.Status, req.CreatedAt).Scan(&req.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *requestRepository) GetByIDAndRequester(ctx context.Context, id, requesterID string) (*domain.ParticipationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE id = $1 AND requester_id = $2
	`
	req := &domain.ParticipationRequest{}
	err := run(ctx, r.DB).QueryRowContext(ctx, query, id, requesterID).Scan(
		&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.ParticipationRequest, error) {
	rows, err := run(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := make([]*domain.ParticipationRequest, 0)
	for rows.Next() {
		req := &domain.ParticipationRequest{}
		if err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, requesterID)
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE event_id = $1
		ORDER BY created_at
	`
	return r.queryMany(ctx, query, eventID)
}

func (r *requestRepository) ListByEventAndIDs(ctx context.Context, eventID string, ids []string) ([]*domain.ParticipationRequest, error) {
	if len(ids) == 0 {
		return []*domain.ParticipationRequest{}, nil
	}
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE event_id = $1 AND id = ANY($2)
	`
	return r.queryMany(ctx, query, eventID, pq.Array(ids))
}

func (r *requestRepository) ListPendingByEventExcluding(ctx context.Context, eventID string, excluded []string) ([]*domain.ParticipationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM participation_requests
		WHERE event_id = $1 AND status = 'PENDING' AND NOT (id = ANY($2))
		ORDER BY id
	`
	return r.queryMany(ctx, query, eventID, pq.Array(excluded))
}

func (r *requestRepository) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM participation_requests
		WHERE event_id = $1 AND status = $2
	`
	var count int64
	if err := run(ctx, r.DB).QueryRowContext(ctx, query, eventID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(eventIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT event_id, COUNT(*)
		FROM participation_requests
		WHERE event_id = ANY($1) AND status = 'CONFIRMED'
		GROUP BY event_id
	`
	rows, err := run(ctx, r.DB).QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		var count int64
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, err
		}
		counts[eventID] = count
	}
	return counts, rows.Err()
}

func (r *requestRepository) ExistsActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM participation_requests
			WHERE requester_id = $1 AND event_id = $2 AND status != 'CANCELED'
		)
	`
	var exists bool
	if err := run(ctx, r.DB).QueryRowContext(ctx, query, requesterID, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	query := `
		UPDATE participation_requests SET status = $1
		WHERE id = $2
	`
	result, err := run(ctx, r.DB).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
