// Package http provides the HTTP handlers for the product service.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quitanda/ecommerce/pkg/httputil"
	"github.com/quitanda/ecommerce/pkg/pagination"
	"github.com/quitanda/ecommerce/pkg/validator"
	"github.com/quitanda/ecommerce/services/product/internal/repository"
	"github.com/quitanda/ecommerce/services/product/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	products *service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(products *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description string         `json:"description" validate:"omitempty,max=5000"`
	Price       float64        `json:"price" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	CategoryID  string         `json:"category_id" validate:"required"`
	SupplierID  string         `json:"supplier_id" validate:"required"`
	Features    map[string]any `json:"features"`
	Images      []string       `json:"images" validate:"omitempty,dive,url"`
	SKU         string         `json:"sku" validate:"required,max=50"`
}

// UpdateProductRequest is the JSON request body for a partial product update.
type UpdateProductRequest struct {
	Name        *string        `json:"name" validate:"omitempty,max=255"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	PriceReason string         `json:"price_change_reason" validate:"omitempty,max=255"`
	Stock       *int           `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string        `json:"category_id" validate:"omitempty"`
	SupplierID  *string        `json:"supplier_id" validate:"omitempty"`
	Features    map[string]any `json:"features"`
	Images      []string       `json:"images" validate:"omitempty,dive,url"`
	Status      *string        `json:"status" validate:"omitempty,oneof=active inactive discontinued"`
	SKU         *string        `json:"sku" validate:"omitempty,max=50"`
}

// UpdateStockRequest is the JSON request body for setting the stock level.
type UpdateStockRequest struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

// UpdatePriceRequest is the JSON request body for setting a new price.
type UpdatePriceRequest struct {
	Price  *float64 `json:"price" validate:"required,gte=0"`
	Reason string   `json:"reason" validate:"omitempty,max=255"`
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
		Features:    req.Features,
		Images:      req.Images,
		SKU:         req.SKU,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := repository.ProductFilter{Page: params.Page, PerPage: params.PerPage}

	if v := r.URL.Query().Get("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := r.URL.Query().Get("supplier_id"); v != "" {
		filter.SupplierID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
}

// ListProductsByCategory handles GET /api/v1/categories/{categoryId}/products
func (h *ProductHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	categoryID := chi.URLParam(r, "categoryId")
	filter := repository.ProductFilter{CategoryID: &categoryID, Page: params.Page, PerPage: params.PerPage}

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
}

// ListProductsBySupplier handles GET /api/v1/suppliers/{supplierId}/products
func (h *ProductHandler) ListProductsBySupplier(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	supplierID := chi.URLParam(r, "supplierId")
	filter := repository.ProductFilter{SupplierID: &supplierID, Page: params.Page, PerPage: params.PerPage}

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PriceReason: req.PriceReason,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
		Features:    req.Features,
		Images:      req.Images,
		Status:      req.Status,
		SKU:         req.SKU,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// UpdateStock handles PATCH /api/v1/products/{id}/stock
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req UpdateStockRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.UpdateStock(r.Context(), chi.URLParam(r, "id"), *req.Stock)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// UpdatePrice handles PATCH /api/v1/products/{id}/price
func (h *ProductHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.UpdatePrice(r.Context(), chi.URLParam(r, "id"), *req.Price, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetPriceHistory handles GET /api/v1/products/{id}/price-history
func (h *ProductHandler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	changes, err := h.products.PriceHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: changes})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
