package handlers

import (
	"context"
	"net/http"

	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles the health probe
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service health, including store connectivity
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"store":  "unreachable",
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
