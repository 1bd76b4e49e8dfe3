package domain

import (
	"context"
	"time"
)

// Comment is a user comment on a published event.
// swagger:model Comment
type Comment struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	AuthorID  string     `json:"author_id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Comment, error)
	ListByAuthor(ctx context.Context, authorID string, params PaginationParams) ([]*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id string) error
}

// CommentService defines comment operations for users and administrators.
type CommentService interface {
	AddComment(ctx context.Context, userID, eventID, text string) (*Comment, error)
	UpdateComment(ctx context.Context, userID, commentID, text string) (*Comment, error)
	DeleteComment(ctx context.Context, userID, commentID string) error
	DeleteCommentByAdmin(ctx context.Context, commentID string) error
	ListEventComments(ctx context.Context, eventID string, params PaginationParams) ([]*Comment, error)
	ListUserComments(ctx context.Context, userID string, params PaginationParams) ([]*Comment, error)
	GetComment(ctx context.Context, commentID string) (*Comment, error)
}
