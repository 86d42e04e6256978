package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/trafficshawarma/storefront/internal/middleware"
	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/services"
	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// AuthServiceInterface defines the interface for admin authentication
type AuthServiceInterface interface {
	AuthenticateAdmin(ctx context.Context, username, password, ipAddress string) (*services.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// CredentialServiceInterface defines the interface for credential management
type CredentialServiceInterface interface {
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// AuthHandler handles admin authentication HTTP requests
type AuthHandler struct {
	service     AuthServiceInterface
	credentials CredentialServiceInterface
	auditLogger *pkglogger.AuditLogger
	ipConfig    *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, credentials CredentialServiceInterface, auditLogger *pkglogger.AuditLogger, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:     service,
		credentials: credentials,
		auditLogger: auditLogger,
		ipConfig:    ipConfig,
	}
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Login handles admin login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.AuthenticateAdmin(r.Context(), req.Username, req.Password, ipAddress)
	if err != nil {
		pkghttp.WriteInternalError(w, "Authentication system error")
		return
	}

	switch {
	case result.Success:
		pkghttp.WriteJSON(w, http.StatusOK, result)
	case result.LockedUntil != nil && result.RemainingAttempts == nil:
		// Locked out before the credentials were even checked.
		pkghttp.WriteJSON(w, http.StatusTooManyRequests, result)
	default:
		pkghttp.WriteJSON(w, http.StatusUnauthorized, result)
	}
}

// Logout handles admin logout. Always succeeds; an unknown or missing
// token leaves nothing to invalidate.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.AdminTokenHeader)

	if err := h.service.Logout(r.Context(), token); err != nil {
		pkghttp.WriteInternalError(w, "Logout failed")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ChangePassword handles an authenticated admin password change
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	username := middleware.AdminUsername(r.Context())
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.credentials.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		h.auditLogger.LogPasswordChange(username, ipAddress, false)
		switch {
		case errors.Is(err, models.ErrInvalidCredential):
			pkghttp.WriteUnauthorized(w, "Current password is incorrect")
		case errors.Is(err, models.ErrWeakPassword):
			pkghttp.WriteBadRequest(w, "Password must be at least 8 characters")
		default:
			pkghttp.WriteInternalError(w, "Failed to change password")
		}
		return
	}

	h.auditLogger.LogPasswordChange(username, ipAddress, true)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password changed successfully",
	})
}
