package domain

import (
	"errors"
	"fmt"
)

// Error categories. Controllers map these to HTTP statuses: ErrNotFound to
// 404, ErrConflict to 409, ErrInvalidInput to 400.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Business-rule violations. Each wraps ErrConflict so callers can classify
// with errors.Is while keeping the specific message.
var (
	ErrSelfParticipation    = fmt.Errorf("initiator cannot request participation in own event: %w", ErrConflict)
	ErrEventNotPublished    = fmt.Errorf("cannot participate in unpublished event: %w", ErrConflict)
	ErrDuplicateRequest     = fmt.Errorf("duplicate participation request: %w", ErrConflict)
	ErrParticipantLimitReached = fmt.Errorf("participant limit reached: %w", ErrConflict)
	ErrRequestNotCancelable = fmt.Errorf("only pending requests can be canceled: %w", ErrConflict)
	ErrRequestNotPending    = fmt.Errorf("only pending requests can be moderated: %w", ErrConflict)
	ErrNoModerationRequired = fmt.Errorf("no moderation required for this event: %w", ErrConflict)

	ErrEventNotPending      = fmt.Errorf("cannot publish the event because it is not in pending state: %w", ErrConflict)
	ErrEventAlreadyPublished = fmt.Errorf("cannot reject the event because it is already published: %w", ErrConflict)
	ErrEventNotEditable     = fmt.Errorf("only pending or canceled events can be updated: %w", ErrConflict)

	ErrDuplicateEmail        = fmt.Errorf("email already in use: %w", ErrConflict)
	ErrDuplicateCategoryName = fmt.Errorf("category name already in use: %w", ErrConflict)
	ErrCategoryInUse         = fmt.Errorf("category has events attached: %w", ErrConflict)

	ErrCommentNotAllowed = fmt.Errorf("comments are allowed only on published events: %w", ErrConflict)
	ErrNotCommentAuthor  = fmt.Errorf("only the comment author can modify it: %w", ErrConflict)
)
