package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trafficshawarma/storefront/internal/middleware"
	"github.com/trafficshawarma/storefront/internal/models"
	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// MenuServiceInterface defines the interface for menu management
type MenuServiceInterface interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, id string) (*models.MenuItem, error)
	Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	Update(ctx context.Context, id string, updates models.MenuItemUpdate) (*models.MenuItem, error)
	Delete(ctx context.Context, id string) error
	SeedMenu(ctx context.Context) (successful, failed int, err error)
}

// MenuHandler handles menu HTTP requests
type MenuHandler struct {
	service     MenuServiceInterface
	auditLogger *pkglogger.AuditLogger
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(service MenuServiceInterface, auditLogger *pkglogger.AuditLogger) *MenuHandler {
	return &MenuHandler{service: service, auditLogger: auditLogger}
}

// CreateMenuItemRequest represents the request body for creating a menu item
type CreateMenuItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image"`
	Available   *bool   `json:"available"`
}

// List returns all menu items
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load menu")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create adds a new menu item
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	created, err := h.service.Create(r.Context(), item)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid menu item")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to create menu item")
		return
	}

	h.auditLogger.LogAdminAction("menu_item_created", middleware.AdminUsername(r.Context()),
		map[string]string{"id": created.ID, "name": created.Name})

	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a menu item
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates models.MenuItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if updates.Price != nil && *updates.Price <= 0 {
		pkghttp.WriteBadRequest(w, "Price must be greater than zero")
		return
	}

	updated, err := h.service.Update(r.Context(), id, updates)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Menu item not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to update menu item")
		return
	}

	h.auditLogger.LogAdminAction("menu_item_updated", middleware.AdminUsername(r.Context()),
		map[string]string{"id": id})

	pkghttp.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes a menu item
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Menu item not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to delete menu item")
		return
	}

	h.auditLogger.LogAdminAction("menu_item_deleted", middleware.AdminUsername(r.Context()),
		map[string]string{"id": id})

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Seed loads the default menu into the store
func (h *MenuHandler) Seed(w http.ResponseWriter, r *http.Request) {
	successful, failed, err := h.service.SeedMenu(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to seed menu")
		return
	}

	h.auditLogger.LogAdminAction("menu_seeded", middleware.AdminUsername(r.Context()), nil)

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"successful": successful,
		"failed":     failed,
	})
}
