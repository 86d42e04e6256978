package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/trafficshawarma/storefront/internal/middleware"
	"github.com/trafficshawarma/storefront/internal/models"
	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// SettingsServiceInterface defines the interface for storefront settings
type SettingsServiceInterface interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, settings models.Settings) (*models.Settings, error)
}

// SettingsHandler handles storefront settings HTTP requests
type SettingsHandler struct {
	service     SettingsServiceInterface
	auditLogger *pkglogger.AuditLogger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service SettingsServiceInterface, auditLogger *pkglogger.AuditLogger) *SettingsHandler {
	return &SettingsHandler{service: service, auditLogger: auditLogger}
}

// Get returns the storefront settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load settings")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, settings)
}

// Update overwrites the storefront settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings

	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if settings.RestaurantName == "" {
		pkghttp.WriteBadRequest(w, "Restaurant name is required")
		return
	}

	updated, err := h.service.Update(r.Context(), settings)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to save settings")
		return
	}

	h.auditLogger.LogAdminAction("settings_updated", middleware.AdminUsername(r.Context()), nil)

	pkghttp.WriteJSON(w, http.StatusOK, updated)
}
