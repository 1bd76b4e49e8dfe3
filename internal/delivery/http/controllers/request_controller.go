package controllers

import (
	"log/slog"
	"net/http"

	"eventlisting/internal/delivery/http/helpers"
	"eventlisting/internal/domain"
)

// CreateRequestBody is the request body for POST /users/{userID}/requests
type CreateRequestBody struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (b CreateRequestBody) Validate() []string {
	if b.EventID == "" {
		return []string{"event_id is required"}
	}
	return nil
}

// ModerateRequestsBody is the request body for
// PATCH /users/{userID}/events/{eventID}/requests
type ModerateRequestsBody struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status"`
}

// Validate implements Validator.
func (b ModerateRequestsBody) Validate() []string {
	var errs []string
	if len(b.RequestIDs) == 0 {
		errs = append(errs, "request_ids is required")
	}
	if b.Status != string(domain.RequestStatusConfirmed) && b.Status != string(domain.RequestStatusRejected) {
		errs = append(errs, "status must be CONFIRMED or REJECTED")
	}
	return errs
}

// RequestController handles participation request endpoints.
type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

// NewRequestController creates a RequestController with the given logger and service.
func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Request participation in an event
// @Description The event must be published, not the requester's own, within its participant limit, and without an existing active request from the same user.
// @Tags requests
// @Accept json
// @Produce json
// @Param userID path string true "Requester id"
// @Param body body CreateRequestBody true "Target event"
// @Success 201 {object} helpers.APIResponse "data contains the created request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [post]
func (c *RequestController) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateRequestBody
	if !helpers.DecodeAndValidate(w, r, &body) {
		return
	}
	req, err := c.Service.CreateRequest(r.Context(), r.PathValue("userID"), body.EventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, req)
}

// ListOwn godoc
// @Summary List the user's participation requests
// @Tags requests
// @Produce json
// @Param userID path string true "Requester id"
// @Success 200 {object} helpers.APIResponse "data contains the request list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [get]
func (c *RequestController) ListOwn(w http.ResponseWriter, r *http.Request) {
	requests, err := c.Service.ListUserRequests(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// Cancel godoc
// @Summary Cancel a pending participation request
// @Description Only PENDING requests can be canceled.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester id"
// @Param requestID path string true "Request id"
// @Success 200 {object} helpers.APIResponse "data contains the canceled request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests/{requestID}/cancel [patch]
func (c *RequestController) Cancel(w http.ResponseWriter, r *http.Request) {
	req, err := c.Service.CancelRequest(r.Context(), r.PathValue("userID"), r.PathValue("requestID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, req)
}

// ListForEvent godoc
// @Summary List requests for one of the initiator's events
// @Tags requests
// @Produce json
// @Param userID path string true "Initiator id"
// @Param eventID path string true "Event id"
// @Success 200 {object} helpers.APIResponse "data contains the request list"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [get]
func (c *RequestController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	requests, err := c.Service.ListEventRequests(r.Context(), r.PathValue("userID"), r.PathValue("eventID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// Moderate godoc
// @Summary Confirm or reject pending requests
// @Description Confirms requests in the given order up to the event's free capacity and rejects the overflow. When capacity runs out, remaining pending requests are auto-rejected. All listed requests must be PENDING.
// @Tags requests
// @Accept json
// @Produce json
// @Param userID path string true "Initiator id"
// @Param eventID path string true "Event id"
// @Param body body ModerateRequestsBody true "Request ids and target status"
// @Success 200 {object} helpers.APIResponse "data contains confirmed_requests and rejected_requests"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [patch]
func (c *RequestController) Moderate(w http.ResponseWriter, r *http.Request) {
	var body ModerateRequestsBody
	if !helpers.DecodeAndValidate(w, r, &body) {
		return
	}
	result, err := c.Service.UpdateRequestsStatus(r.Context(),
		r.PathValue("userID"), r.PathValue("eventID"),
		body.RequestIDs, domain.RequestStatus(body.Status))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
