package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trafficshawarma/storefront/internal/middleware"
	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/payments"
	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// OrderServiceInterface defines the interface for the order flow
type OrderServiceInterface interface {
	InitializePayment(ctx context.Context, email string, amount float64, items []models.OrderItem) (*payments.InitializeResult, error)
	VerifyPayment(ctx context.Context, reference string) (*payments.VerifyResult, error)
	Get(ctx context.Context, reference string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, reference, status string) (*models.Order, error)
}

// OrderHandler handles order and payment HTTP requests
type OrderHandler struct {
	service     OrderServiceInterface
	auditLogger *pkglogger.AuditLogger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service OrderServiceInterface, auditLogger *pkglogger.AuditLogger) *OrderHandler {
	return &OrderHandler{service: service, auditLogger: auditLogger}
}

// InitializePaymentRequest represents the request body for starting a payment
type InitializePaymentRequest struct {
	Email  string             `json:"email" validate:"required,email"`
	Amount float64            `json:"amount" validate:"required,gt=0"`
	Items  []models.OrderItem `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest represents the request body for an admin status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted completed cancelled"`
}

// InitializePayment starts a payment transaction and records the order
func (h *OrderHandler) InitializePayment(w http.ResponseWriter, r *http.Request) {
	var req InitializePaymentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result, err := h.service.InitializePayment(r.Context(), req.Email, req.Amount, req.Items)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to initialize payment")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"data":   result,
	})
}

// VerifyPayment checks a transaction with the payment provider
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	result, err := h.service.VerifyPayment(r.Context(), reference)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to verify payment")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"data":   result,
	})
}

// Get returns one order by its payment reference
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	order, err := h.service.Get(r.Context(), reference)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Order not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to load order")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, order)
}

// List returns all orders, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load orders")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// UpdateStatus sets an admin-controlled order status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), reference, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Order not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid order status")
		default:
			pkghttp.WriteInternalError(w, "Failed to update order")
		}
		return
	}

	h.auditLogger.LogAdminAction("order_status_updated", middleware.AdminUsername(r.Context()),
		map[string]string{"reference": reference, "status": req.Status})

	pkghttp.WriteJSON(w, http.StatusOK, order)
}
