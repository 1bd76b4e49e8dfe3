package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventlisting/internal/delivery/http/helpers"
	"eventlisting/internal/domain"
)

// NewCompilationRequest is the request body for POST /admin/compilations
type NewCompilationRequest struct {
	Title    string   `json:"title"`
	Pinned   bool     `json:"pinned"`
	EventIDs []string `json:"event_ids"`
}

// Validate implements Validator.
func (c NewCompilationRequest) Validate() []string {
	if strings.TrimSpace(c.Title) == "" {
		return []string{"title is required"}
	}
	return nil
}

// UpdateCompilationRequest is the request body for PATCH /admin/compilations/{compID}.
// Nil fields are left unchanged; event_ids replaces the whole set when present.
type UpdateCompilationRequest struct {
	Title    *string  `json:"title"`
	Pinned   *bool    `json:"pinned"`
	EventIDs []string `json:"event_ids"`
}

// Validate implements Validator.
func (c UpdateCompilationRequest) Validate() []string {
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return []string{"title cannot be empty"}
	}
	return nil
}

// CompilationController handles compilation management and public reads.
type CompilationController struct {
	Logger  *slog.Logger
	Service domain.CompilationService
}

// NewCompilationController creates a CompilationController with the given logger and service.
func NewCompilationController(logger *slog.Logger, svc domain.CompilationService) *CompilationController {
	return &CompilationController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a compilation
// @Tags admin-compilations
// @Accept json
// @Produce json
// @Param body body NewCompilationRequest true "Compilation data"
// @Success 201 {object} helpers.APIResponse "data contains the created compilation with events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations [post]
func (c *CompilationController) Create(w http.ResponseWriter, r *http.Request) {
	var req NewCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comp, err := c.Service.CreateCompilation(r.Context(), req.Title, req.Pinned, req.EventIDs)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comp)
}

// Update godoc
// @Summary Update a compilation
// @Tags admin-compilations
// @Accept json
// @Produce json
// @Param compID path string true "Compilation id"
// @Param body body UpdateCompilationRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated compilation with events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID} [patch]
func (c *CompilationController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comp, err := c.Service.UpdateCompilation(r.Context(), r.PathValue("compID"), domain.CompilationUpdate{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.EventIDs,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comp)
}

// Delete godoc
// @Summary Delete a compilation
// @Tags admin-compilations
// @Produce json
// @Param compID path string true "Compilation id"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/compilations/{compID} [delete]
func (c *CompilationController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteCompilation(r.Context(), r.PathValue("compID")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List godoc
// @Summary List compilations
// @Tags compilations
// @Produce json
// @Param pinned query bool false "Filter by pinned"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the compilation list with events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /compilations [get]
func (c *CompilationController) List(w http.ResponseWriter, r *http.Request) {
	var pinned *bool
	if s := r.URL.Query().Get("pinned"); s != "" {
		v := s == "true"
		pinned = &v
	}
	comps, err := c.Service.ListCompilations(r.Context(), pinned, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comps)
}

// Get godoc
// @Summary Get a compilation
// @Tags compilations
// @Produce json
// @Param compID path string true "Compilation id"
// @Success 200 {object} helpers.APIResponse "data contains the compilation with events"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /compilations/{compID} [get]
func (c *CompilationController) Get(w http.ResponseWriter, r *http.Request) {
	comp, err := c.Service.GetCompilation(r.Context(), r.PathValue("compID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comp)
}
