// Package http provides the HTTP handlers for the supplier service.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quitanda/ecommerce/pkg/httputil"
	"github.com/quitanda/ecommerce/pkg/validator"
	"github.com/quitanda/ecommerce/services/supplier/internal/service"
)

// SupplierHandler handles HTTP requests for supplier endpoints.
type SupplierHandler struct {
	suppliers *service.SupplierService
	logger    *slog.Logger
}

// NewSupplierHandler creates a new supplier HTTP handler.
func NewSupplierHandler(suppliers *service.SupplierService, logger *slog.Logger) *SupplierHandler {
	return &SupplierHandler{
		suppliers: suppliers,
		logger:    logger,
	}
}

// CreateSupplierRequest is the JSON request body for registering a supplier.
type CreateSupplierRequest struct {
	LegalName      string         `json:"legal_name" validate:"required,max=255"`
	TradingName    string         `json:"trading_name" validate:"omitempty,max=255"`
	TaxID          string         `json:"tax_id" validate:"required,max=20"`
	Email          string         `json:"email" validate:"required,email"`
	Phone          string         `json:"phone" validate:"required,max=20"`
	Address        map[string]any `json:"address" validate:"required"`
	Representative string         `json:"representative" validate:"omitempty,max=100"`
	PaymentTerms   string         `json:"payment_terms" validate:"omitempty,max=100"`
}

// UpdateSupplierRequest is the JSON request body for a partial supplier
// update.
type UpdateSupplierRequest struct {
	LegalName      *string        `json:"legal_name" validate:"omitempty,max=255"`
	TradingName    *string        `json:"trading_name" validate:"omitempty,max=255"`
	TaxID          *string        `json:"tax_id" validate:"omitempty,max=20"`
	Email          *string        `json:"email" validate:"omitempty,email"`
	Phone          *string        `json:"phone" validate:"omitempty,max=20"`
	Address        map[string]any `json:"address"`
	Status         *string        `json:"status" validate:"omitempty,oneof=active inactive"`
	Representative *string        `json:"representative" validate:"omitempty,max=100"`
	PaymentTerms   *string        `json:"payment_terms" validate:"omitempty,max=100"`
}

// CreateContactRequest is the JSON request body for adding a contact.
type CreateContactRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Position   string `json:"position" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Department string `json:"department" validate:"omitempty,max=50"`
	IsPrimary  bool   `json:"is_primary"`
}

// UpdateContactRequest is the JSON request body for a partial contact update.
type UpdateContactRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Department *string `json:"department" validate:"omitempty,max=50"`
	IsPrimary  *bool   `json:"is_primary"`
}

// CreateDeliveryRequest is the JSON request body for scheduling a delivery.
type CreateDeliveryRequest struct {
	DeliveryDate  time.Time `json:"delivery_date" validate:"required"`
	Products      []any     `json:"products" validate:"required,min=1"`
	InvoiceNumber string    `json:"invoice_number" validate:"omitempty,max=50"`
	Notes         string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateDeliveryRequest is the JSON request body for a partial delivery
// update.
type UpdateDeliveryRequest struct {
	DeliveryDate  *time.Time `json:"delivery_date"`
	Products      []any      `json:"products" validate:"omitempty,min=1"`
	Status        *string    `json:"status" validate:"omitempty,oneof=scheduled in_transit delivered cancelled"`
	InvoiceNumber *string    `json:"invoice_number" validate:"omitempty,max=50"`
	Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	supplier, err := h.suppliers.Create(r.Context(), service.CreateSupplierInput{
		LegalName:      req.LegalName,
		TradingName:    req.TradingName,
		TaxID:          req.TaxID,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Representative: req.Representative,
		PaymentTerms:   req.PaymentTerms,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: supplier})
}

// GetSupplier handles GET /api/v1/suppliers/{id}
func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.suppliers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: supplier})
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suppliers})
}

// ListActiveSuppliers handles GET /api/v1/suppliers/active
func (h *SupplierHandler) ListActiveSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.ListActive(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suppliers})
}

// UpdateSupplier handles PUT /api/v1/suppliers/{id}
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req UpdateSupplierRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	supplier, err := h.suppliers.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateSupplierInput{
		LegalName:      req.LegalName,
		TradingName:    req.TradingName,
		TaxID:          req.TaxID,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Status:         req.Status,
		Representative: req.Representative,
		PaymentTerms:   req.PaymentTerms,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: supplier})
}

// DeleteSupplier handles DELETE /api/v1/suppliers/{id}
func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.suppliers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateContact handles POST /api/v1/suppliers/{id}/contacts
func (h *SupplierHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.suppliers.AddContact(r.Context(), chi.URLParam(r, "id"), service.CreateContactInput{
		Name:       req.Name,
		Position:   req.Position,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		IsPrimary:  req.IsPrimary,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: contact})
}

// ListContacts handles GET /api/v1/suppliers/{id}/contacts
func (h *SupplierHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.suppliers.ListContacts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contacts})
}

// UpdateContact handles PUT /api/v1/suppliers/{id}/contacts/{contactId}
func (h *SupplierHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req UpdateContactRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.suppliers.UpdateContact(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "contactId"),
		service.UpdateContactInput{
			Name:       req.Name,
			Position:   req.Position,
			Email:      req.Email,
			Phone:      req.Phone,
			Department: req.Department,
			IsPrimary:  req.IsPrimary,
		})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contact})
}

// DeleteContact handles DELETE /api/v1/suppliers/{id}/contacts/{contactId}
func (h *SupplierHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	err := h.suppliers.RemoveContact(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "contactId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateDelivery handles POST /api/v1/suppliers/{id}/deliveries
func (h *SupplierHandler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req CreateDeliveryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	delivery, err := h.suppliers.ScheduleDelivery(r.Context(), chi.URLParam(r, "id"), service.CreateDeliveryInput{
		DeliveryDate:  req.DeliveryDate,
		Products:      req.Products,
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: delivery})
}

// ListDeliveries handles GET /api/v1/suppliers/{id}/deliveries
func (h *SupplierHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.suppliers.ListDeliveries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: deliveries})
}

// UpdateDelivery handles PUT /api/v1/suppliers/{id}/deliveries/{deliveryId}
func (h *SupplierHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	var req UpdateDeliveryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	delivery, err := h.suppliers.UpdateDelivery(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "deliveryId"),
		service.UpdateDeliveryInput{
			DeliveryDate:  req.DeliveryDate,
			Products:      req.Products,
			Status:        req.Status,
			InvoiceNumber: req.InvoiceNumber,
			Notes:         req.Notes,
		})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: delivery})
}
