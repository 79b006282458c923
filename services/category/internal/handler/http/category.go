// Package http provides the HTTP handlers for the category service.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quitanda/ecommerce/pkg/httputil"
	"github.com/quitanda/ecommerce/pkg/validator"
	"github.com/quitanda/ecommerce/services/category/internal/service"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Name         string         `json:"name" validate:"required,max=100"`
	Description  string         `json:"description" validate:"omitempty,max=2000"`
	ImageURL     string         `json:"image_url" validate:"omitempty,url,max=255"`
	ParentID     *string        `json:"parent_id" validate:"omitempty"`
	DisplayOrder int            `json:"display_order" validate:"gte=0"`
	Attributes   map[string]any `json:"attributes"`
	URLSlug      string         `json:"url_slug" validate:"omitempty,max=100"`
}

// UpdateCategoryRequest is the JSON request body for a partial category
// update. An omitted parent_id leaves the parent unchanged; an empty string
// moves the category to the root level.
type UpdateCategoryRequest struct {
	Name         *string        `json:"name" validate:"omitempty,max=100"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
	ImageURL     *string        `json:"image_url" validate:"omitempty,max=255"`
	ParentID     *string        `json:"parent_id"`
	Status       *string        `json:"status" validate:"omitempty,oneof=active inactive"`
	DisplayOrder *int           `json:"display_order" validate:"omitempty,gte=0"`
	Attributes   map[string]any `json:"attributes"`
	URLSlug      *string        `json:"url_slug" validate:"omitempty,max=100"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	category, err := h.categories.Create(r.Context(), service.CreateCategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
		Attributes:   req.Attributes,
		URLSlug:      req.URLSlug,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: category})
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// GetCategoryBySlug handles GET /api/v1/categories/slug/{slug}
func (h *CategoryHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// ListSubcategories handles GET /api/v1/categories/{id}/subcategories
func (h *CategoryHandler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	subcategories, err := h.categories.ListSubcategories(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: subcategories})
}

// GetHierarchy handles GET /api/v1/categories/hierarchy
func (h *CategoryHandler) GetHierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categories.Hierarchy(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: tree})
}

// GetCategoryAttributes handles GET /api/v1/categories/{id}/attributes
func (h *CategoryHandler) GetCategoryAttributes(w http.ResponseWriter, r *http.Request) {
	attrs, err := h.categories.ResolveAttributes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attrs})
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.UpdateCategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Status:       req.Status,
		DisplayOrder: req.DisplayOrder,
		Attributes:   req.Attributes,
		URLSlug:      req.URLSlug,
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			var root *string
			input.ParentID = &root
		} else {
			input.ParentID = &req.ParentID
		}
	}

	category, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
