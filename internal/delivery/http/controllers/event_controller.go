package controllers

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"eventlisting/internal/delivery/http/helpers"
	"eventlisting/internal/domain"
)

// dateTimeLayout is the date format used in request bodies and query strings.
const dateTimeLayout = "2006-01-02 15:04:05"

// NewEventRequest is the request body for POST /users/{userID}/events
type NewEventRequest struct {
	Title             string `json:"title"`
	Annotation        string `json:"annotation"`
	Description       string `json:"description"`
	CategoryID        string `json:"category_id"`
	ParticipantLimit  int    `json:"participant_limit"`
	RequestModeration *bool  `json:"request_moderation"`
	Paid              bool   `json:"paid"`
	EventDate         string `json:"event_date"`
}

// Validate implements Validator.
func (e NewEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(e.Annotation) == "" {
		errs = append(errs, "annotation is required")
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		errs = append(errs, "category_id is required")
	}
	if e.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must be >= 0")
	}
	if _, err := time.Parse(dateTimeLayout, e.EventDate); err != nil {
		errs = append(errs, "event_date must be in format "+dateTimeLayout)
	}
	return errs
}

// UpdateEventRequest is the request body for event patches. All fields are optional.
type UpdateEventRequest struct {
	Title             *string `json:"title"`
	Annotation        *string `json:"annotation"`
	Description       *string `json:"description"`
	CategoryID        *string `json:"category_id"`
	ParticipantLimit  *int    `json:"participant_limit"`
	RequestModeration *bool   `json:"request_moderation"`
	Paid              *bool   `json:"paid"`
	EventDate         *string `json:"event_date"`
	StateAction       *string `json:"state_action"`
}

// Validate implements Validator.
func (e UpdateEventRequest) Validate() []string {
	var errs []string
	if e.Title != nil && strings.TrimSpace(*e.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if e.EventDate != nil {
		if _, err := time.Parse(dateTimeLayout, *e.EventDate); err != nil {
			errs = append(errs, "event_date must be in format "+dateTimeLayout)
		}
	}
	return errs
}

func (e UpdateEventRequest) toDomain() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		CategoryID:        e.CategoryID,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		Paid:              e.Paid,
	}
	if e.EventDate != nil {
		if t, err := time.Parse(dateTimeLayout, *e.EventDate); err == nil {
			upd.EventDate = &t
		}
	}
	return upd
}

// EventController handles admin, initiator, and public event endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Stats   domain.StatsClient
}

// NewEventController creates an EventController with the given logger, service, and stats client.
func NewEventController(logger *slog.Logger, svc domain.EventService, stats domain.StatsClient) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Stats:   stats,
	}
}

// clientIP extracts the caller's IP, preferring X-Forwarded-For.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseQueryTime(r *http.Request, key string) *time.Time {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// Create godoc
// @Summary Create an event
// @Description Create a new event in PENDING state. event_date must be at least two hours in the future.
// @Tags private-events
// @Accept json
// @Produce json
// @Param userID path string true "Initiator id"
// @Param body body NewEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req NewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	eventDate, _ := time.Parse(dateTimeLayout, req.EventDate)
	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}
	event, err := c.Service.CreateEvent(r.Context(), r.PathValue("userID"), domain.NewEventInput{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: moderation,
		Paid:              req.Paid,
		EventDate:         eventDate,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListOwn godoc
// @Summary List the initiator's events
// @Tags private-events
// @Produce json
// @Param userID path string true "Initiator id"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [get]
func (c *EventController) ListOwn(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListUserEvents(r.Context(), r.PathValue("userID"), helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetOwn godoc
// @Summary Get one of the initiator's events
// @Tags private-events
// @Produce json
// @Param userID path string true "Initiator id"
// @Param eventID path string true "Event id"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [get]
func (c *EventController) GetOwn(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetUserEvent(r.Context(), r.PathValue("userID"), r.PathValue("eventID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateOwn godoc
// @Summary Update one of the initiator's events
// @Description Allowed only while the event is PENDING or CANCELED. state_action may be SEND_TO_REVIEW or CANCEL_REVIEW.
// @Tags private-events
// @Accept json
// @Produce json
// @Param userID path string true "Initiator id"
// @Param eventID path string true "Event id"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [patch]
func (c *EventController) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var action *domain.UserStateAction
	if req.StateAction != nil {
		a := domain.UserStateAction(*req.StateAction)
		if a != domain.ActionSendToReview && a != domain.ActionCancelReview {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "state_action must be SEND_TO_REVIEW or CANCEL_REVIEW")
			return
		}
		action = &a
	}
	event, err := c.Service.UpdateUserEvent(r.Context(), r.PathValue("userID"), r.PathValue("eventID"), req.toDomain(), action)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// SearchAdmin godoc
// @Summary Search events (admin)
// @Tags admin-events
// @Produce json
// @Param users query []string false "Initiator ids"
// @Param states query []string false "Event states"
// @Param categories query []string false "Category ids"
// @Param range_start query string false "Earliest event date (2006-01-02 15:04:05)"
// @Param range_end query string false "Latest event date (2006-01-02 15:04:05)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) SearchAdmin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	states := make([]domain.EventState, 0, len(query["states"]))
	for _, s := range query["states"] {
		states = append(states, domain.EventState(s))
	}
	events, err := c.Service.SearchAdminEvents(r.Context(), domain.AdminEventFilter{
		InitiatorIDs: query["users"],
		States:       states,
		CategoryIDs:  query["categories"],
		RangeStart:   parseQueryTime(r, "range_start"),
		RangeEnd:     parseQueryTime(r, "range_end"),
		Pagination:   helpers.ParsePagination(r),
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateAdmin godoc
// @Summary Update an event (admin)
// @Description state_action may be PUBLISH_EVENT (requires PENDING) or REJECT_EVENT (refused when PUBLISHED).
// @Tags admin-events
// @Accept json
// @Produce json
// @Param eventID path string true "Event id"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *EventController) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var action *domain.AdminStateAction
	if req.StateAction != nil {
		a := domain.AdminStateAction(*req.StateAction)
		if a != domain.ActionPublishEvent && a != domain.ActionRejectEvent {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "state_action must be PUBLISH_EVENT or REJECT_EVENT")
			return
		}
		action = &a
	}
	event, err := c.Service.UpdateAdminEvent(r.Context(), r.PathValue("eventID"), req.toDomain(), action)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetPublic godoc
// @Summary Get a published event
// @Description Returns a published event enriched with views and confirmed request count. Records a hit in the stats service.
// @Tags public-events
// @Produce json
// @Param eventID path string true "Event id"
// @Success 200 {object} helpers.APIResponse "data contains the event with stats"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetPublic(w http.ResponseWriter, r *http.Request) {
	c.Stats.Hit(r.Context(), r.URL.Path, clientIP(r), time.Now())
	event, err := c.Service.GetPublishedEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// SearchPublic godoc
// @Summary Search published events
// @Description Full-text search over title and annotation with category, paid, date range, and availability filters. Records a hit in the stats service.
// @Tags public-events
// @Produce json
// @Param text query string false "Text to match in title or annotation"
// @Param categories query []string false "Category ids"
// @Param paid query bool false "Paid filter"
// @Param range_start query string false "Earliest event date (2006-01-02 15:04:05)"
// @Param range_end query string false "Latest event date (2006-01-02 15:04:05)"
// @Param only_available query bool false "Only events with free spots"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the event list with stats"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) SearchPublic(w http.ResponseWriter, r *http.Request) {
	c.Stats.Hit(r.Context(), r.URL.Path, clientIP(r), time.Now())
	query := r.URL.Query()
	filter := domain.PublicEventFilter{
		Text:          query.Get("text"),
		CategoryIDs:   query["categories"],
		RangeStart:    parseQueryTime(r, "range_start"),
		RangeEnd:      parseQueryTime(r, "range_end"),
		OnlyAvailable: query.Get("only_available") == "true",
		Pagination:    helpers.ParsePagination(r),
	}
	if s := query.Get("paid"); s != "" {
		paid := s == "true"
		filter.Paid = &paid
	}
	events, err := c.Service.SearchPublishedEvents(r.Context(), filter)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
