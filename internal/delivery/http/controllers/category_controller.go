package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventlisting/internal/delivery/http/helpers"
	"eventlisting/internal/domain"
)

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (c CategoryRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// CategoryController handles category management and public reads.
type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

// NewCategoryController creates a CategoryController with the given logger and service.
func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a category
// @Tags admin-categories
// @Accept json
// @Produce json
// @Param body body CategoryRequest true "Category data"
// @Success 201 {object} helpers.APIResponse "data contains the created category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories [post]
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// Update godoc
// @Summary Rename a category
// @Tags admin-categories
// @Accept json
// @Produce json
// @Param catID path string true "Category id"
// @Param body body CategoryRequest true "New name"
// @Success 200 {object} helpers.APIResponse "data contains the updated category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [patch]
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.UpdateCategory(r.Context(), r.PathValue("catID"), req.Name)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete a category
// @Description Deletion is refused while events reference the category.
// @Tags admin-categories
// @Produce json
// @Param catID path string true "Category id"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [delete]
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteCategory(r.Context(), r.PathValue("catID")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the category list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context(), helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// Get godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param catID path string true "Category id"
// @Success 200 {object} helpers.APIResponse "data contains the category"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{catID} [get]
func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	category, err := c.Service.GetCategory(r.Context(), r.PathValue("catID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}
