package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventlisting/internal/domain"
)

const commentColumns = `id, event_id, author_id, text, created_at, updated_at`

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return run(ctx, r.DB).QueryRowContext(ctx, query, c.EventID, c.AuthorID, c.Text, c.CreatedAt).Scan(&c.ID)
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	var updatedNull sql.NullTime
	err := row.Scan(&c.ID, &c.EventID, &c.AuthorID, &c.Text, &c.CreatedAt, &updatedNull)
	if err != nil {
		return nil, err
	}
	if updatedNull.Valid {
		c.UpdatedAt = &updatedNull.Time
	}
	return c, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1
	`
	c, err := scanComment(run(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Comment, error) {
	rows, err := run(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, eventID, params.Limit(), params.Offset())
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID string, params domain.PaginationParams) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, authorID, params.Limit(), params.Offset())
}

func (r *commentRepository) Update(ctx context.Context, c *domain.Comment) error {
	query := `
		UPDATE comments SET text = $1, updated_at = $2
		WHERE id = $3
	`
	var updated sql.NullTime
	if c.UpdatedAt != nil {
		updated = sql.NullTime{Time: *c.UpdatedAt, Valid: true}
	}
	result, err := run(ctx, r.DB).ExecContext(ctx, query, c.Text, updated, c.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM comments WHERE id = $1`
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
