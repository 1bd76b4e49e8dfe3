package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventlisting/internal/domain"
)

const eventColumns = `id, title, annotation, description, category_id, initiator_id, state, participant_limit, request_moderation, paid, event_date, published_on, created_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var publishedNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &e.Annotation, &e.Description, &e.CategoryID, &e.InitiatorID,
		&e.State, &e.ParticipantLimit, &e.RequestModeration, &e.Paid, &e.EventDate,
		&publishedNull, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if publishedNull.Valid {
		e.PublishedOn = &publishedNull.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id, state, participant_limit, request_moderation, paid, event_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return run(ctx, r.DB).QueryRowContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.InitiatorID,
		e.State, e.ParticipantLimit, e.RequestModeration, e.Paid, e.EventDate, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Event, error) {
	e, err := scanEvent(run(ctx, r.DB).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate locks the event row until the surrounding transaction
// ends, serializing capacity decisions on the same event.
func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) GetByInitiatorAndID(ctx context.Context, initiatorID, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND initiator_id = $2
	`
	return r.getOne(ctx, query, id, initiatorID)
}

func (r *eventRepository) GetByIDAndState(ctx context.Context, id string, state domain.EventState) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND state = $2
	`
	return r.getOne(ctx, query, id, state)
}

func (r *eventRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := run(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID string, params domain.PaginationParams) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE initiator_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, initiatorID, params.Limit(), params.Offset())
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = ANY($1)
	`
	return r.queryMany(ctx, query, pq.Array(ids))
}

func (r *eventRepository) SearchAdmin(ctx context.Context, filter domain.AdminEventFilter) ([]*domain.Event, error) {
	where := []string{}
	args := []interface{}{}
	n := 1
	if len(filter.InitiatorIDs) > 0 {
		where = append(where, fmt.Sprintf("initiator_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.InitiatorIDs))
		n++
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		where = append(where, fmt.Sprintf("state = ANY($%d)", n))
		args = append(args, pq.Array(states))
		n++
	}
	if len(filter.CategoryIDs) > 0 {
		where = append(where, fmt.Sprintf("category_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.CategoryIDs))
		n++
	}
	if filter.RangeStart != nil {
		where = append(where, fmt.Sprintf("event_date >= $%d", n))
		args = append(args, *filter.RangeStart)
		n++
	}
	if filter.RangeEnd != nil {
		where = append(where, fmt.Sprintf("event_date <= $%d", n))
		args = append(args, *filter.RangeEnd)
		n++
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, clause, n, n+1)
	args = append(args, filter.Pagination.Limit(), filter.Pagination.Offset())
	return r.queryMany(ctx, query, args...)
}

func (r *eventRepository) SearchPublished(ctx context.Context, filter domain.PublicEventFilter) ([]*domain.Event, error) {
	where := []string{"state = 'PUBLISHED'"}
	args := []interface{}{}
	n := 1
	if filter.Text != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR annotation ILIKE $%d)", n, n))
		args = append(args, "%"+filter.Text+"%")
		n++
	}
	if len(filter.CategoryIDs) > 0 {
		where = append(where, fmt.Sprintf("category_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.CategoryIDs))
		n++
	}
	if filter.Paid != nil {
		where = append(where, fmt.Sprintf("paid = $%d", n))
		args = append(args, *filter.Paid)
		n++
	}
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		// Without an explicit window only upcoming events are listed.
		where = append(where, "event_date > NOW()")
	}
	if filter.RangeStart != nil {
		where = append(where, fmt.Sprintf("event_date >= $%d", n))
		args = append(args, *filter.RangeStart)
		n++
	}
	if filter.RangeEnd != nil {
		where = append(where, fmt.Sprintf("event_date <= $%d", n))
		args = append(args, *filter.RangeEnd)
		n++
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE %s
		ORDER BY event_date
		LIMIT $%d OFFSET $%d
	`, eventColumns, strings.Join(where, " AND "), n, n+1)
	args = append(args, filter.Pagination.Limit(), filter.Pagination.Offset())
	return r.queryMany(ctx, query, args...)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4,
			state = $5, participant_limit = $6, request_moderation = $7, paid = $8,
			event_date = $9, published_on = $10
		WHERE id = $11
	`
	var published sql.NullTime
	if e.PublishedOn != nil {
		published = sql.NullTime{Time: *e.PublishedOn, Valid: true}
	}
	result, err := run(ctx, r.DB).ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID,
		e.State, e.ParticipantLimit, e.RequestModeration, e.Paid,
		e.EventDate, published, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`
	var exists bool
	if err := run(ctx, r.DB).QueryRowContext(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
