package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventlisting/internal/delivery/http/helpers"
	"eventlisting/internal/domain"
)

// NewCommentRequest is the request body for POST /users/{userID}/comments
type NewCommentRequest struct {
	EventID string `json:"event_id"`
	Text    string `json:"text"`
}

// Validate implements Validator.
func (c NewCommentRequest) Validate() []string {
	var errs []string
	if c.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(c.Text) == "" {
		errs = append(errs, "text is required")
	}
	return errs
}

// UpdateCommentRequest is the request body for PATCH /users/{userID}/comments/{commentID}
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// Validate implements Validator.
func (c UpdateCommentRequest) Validate() []string {
	if strings.TrimSpace(c.Text) == "" {
		return []string{"text is required"}
	}
	return nil
}

// CommentController handles comment endpoints for users and administrators.
type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

// NewCommentController creates a CommentController with the given logger and service.
func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Comment on a published event
// @Tags comments
// @Accept json
// @Produce json
// @Param userID path string true "Author id"
// @Param body body NewCommentRequest true "Comment data"
// @Success 201 {object} helpers.APIResponse "data contains the created comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments [post]
func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var req NewCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.AddComment(r.Context(), r.PathValue("userID"), req.EventID, req.Text)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// Update godoc
// @Summary Edit a comment
// @Description Only the author can edit their comment.
// @Tags comments
// @Accept json
// @Produce json
// @Param userID path string true "Author id"
// @Param commentID path string true "Comment id"
// @Param body body UpdateCommentRequest true "New text"
// @Success 200 {object} helpers.APIResponse "data contains the updated comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments/{commentID} [patch]
func (c *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.UpdateComment(r.Context(), r.PathValue("userID"), r.PathValue("commentID"), req.Text)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment
// @Description Only the author can delete their comment.
// @Tags comments
// @Produce json
// @Param userID path string true "Author id"
// @Param commentID path string true "Comment id"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments/{commentID} [delete]
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteComment(r.Context(), r.PathValue("userID"), r.PathValue("commentID")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAdmin godoc
// @Summary Delete any comment (admin)
// @Tags admin-comments
// @Produce json
// @Param commentID path string true "Comment id"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/comments/{commentID} [delete]
func (c *CommentController) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteCommentByAdmin(r.Context(), r.PathValue("commentID")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForEvent godoc
// @Summary List comments on an event
// @Tags comments
// @Produce json
// @Param eventID path string true "Event id"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the comment list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/comments [get]
func (c *CommentController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	comments, err := c.Service.ListEventComments(r.Context(), r.PathValue("eventID"), helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comments)
}

// ListForUser godoc
// @Summary List a user's comments
// @Tags comments
// @Produce json
// @Param userID path string true "Author id"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the comment list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/comments [get]
func (c *CommentController) ListForUser(w http.ResponseWriter, r *http.Request) {
	comments, err := c.Service.ListUserComments(r.Context(), r.PathValue("userID"), helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comments)
}
