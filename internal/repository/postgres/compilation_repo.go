package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventlisting/internal/domain"
)

type compilationRepository struct {
	DB *sql.DB
}

func NewCompilationRepository(db *sql.DB) domain.CompilationRepository {
	return &compilationRepository{DB: db}
}

func (r *compilationRepository) Create(ctx context.Context, comp *domain.Compilation) error {
	return withTx(ctx, r.DB, func(ctx context.Context) error {
		query := `
			INSERT INTO compilations (title, pinned)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := run(ctx, r.DB).QueryRowContext(ctx, query, comp.Title, comp.Pinned).Scan(&comp.ID); err != nil {
			return err
		}
		return r.replaceEvents(ctx, comp.ID, comp.EventIDs)
	})
}

func (r *compilationRepository) replaceEvents(ctx context.Context, compilationID string, eventIDs []string) error {
	q := run(ctx, r.DB)
	if _, err := q.ExecContext(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, compilationID); err != nil {
		return err
	}
	for i, eventID := range eventIDs {
		query := `
			INSERT INTO compilation_events (compilation_id, event_id, position)
			VALUES ($1, $2, $3)
		`
		if _, err := q.ExecContext(ctx, query, compilationID, eventID, i); err != nil {
			return fmt.Errorf("attach event %s: %w", eventID, err)
		}
	}
	return nil
}

const compilationQuery = `
	SELECT c.id, c.title, c.pinned,
		array_remove(array_agg(ce.event_id ORDER BY ce.position), NULL)
	FROM compilations c
	LEFT JOIN compilation_events ce ON ce.compilation_id = c.id
`

func (r *compilationRepository) GetByID(ctx context.Context, id string) (*domain.Compilation, error) {
	query := compilationQuery + `
		WHERE c.id = $1
		GROUP BY c.id
	`
	comp := &domain.Compilation{}
	var eventIDs []string
	err := run(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&comp.ID, &comp.Title, &comp.Pinned, pq.Array(&eventIDs))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	comp.EventIDs = eventIDs
	return comp, nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.Compilation, error) {
	query := compilationQuery + `
		WHERE $1::boolean IS NULL OR c.pinned = $1
		GROUP BY c.id
		ORDER BY c.title
		LIMIT $2 OFFSET $3
	`
	var pinnedArg sql.NullBool
	if pinned != nil {
		pinnedArg = sql.NullBool{Bool: *pinned, Valid: true}
	}
	rows, err := run(ctx, r.DB).QueryContext(ctx, query, pinnedArg, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	compilations := make([]*domain.Compilation, 0)
	for rows.Next() {
		comp := &domain.Compilation{}
		var eventIDs []string
		if err := rows.Scan(&comp.ID, &comp.Title, &comp.Pinned, pq.Array(&eventIDs)); err != nil {
			return nil, err
		}
		comp.EventIDs = eventIDs
		compilations = append(compilations, comp)
	}
	return compilations, rows.Err()
}

func (r *compilationRepository) Update(ctx context.Context, comp *domain.Compilation) error {
	return withTx(ctx, r.DB, func(ctx context.Context) error {
		query := `
			UPDATE compilations SET title = $1, pinned = $2
			WHERE id = $3
		`
		result, err := run(ctx, r.DB).ExecContext(ctx, query, comp.Title, comp.Pinned, comp.ID)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		return r.replaceEvents(ctx, comp.ID, comp.EventIDs)
	})
}

func (r *compilationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM compilations WHERE id = $1`
	result, err := run(ctx, r.DB).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
