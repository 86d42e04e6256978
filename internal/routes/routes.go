package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/trafficshawarma/storefront/internal/handlers"
	"github.com/trafficshawarma/storefront/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	menuHandler *handlers.MenuHandler,
	orderHandler *handlers.OrderHandler,
	settingsHandler *handlers.SettingsHandler,
	sessions middleware.SessionValidator,
	loginRateLimit middleware.RateLimitConfig,
	logger *slog.Logger,
) {

	// Public routes - no authentication required
	router.Get("/health", healthHandler.Check)
	router.Get("/menu", menuHandler.List)
	router.Get("/settings", settingsHandler.Get)
	router.Get("/orders/{reference}", orderHandler.Get)
	router.Post("/payments/initialize", orderHandler.InitializePayment)
	router.Get("/payments/verify/{reference}", orderHandler.VerifyPayment)

	// The IP limiter caps request floods; the per-username lockout in
	// the auth service is the real brute-force control.
	router.With(middleware.RateLimitByIP(loginRateLimit)).Post("/admin/login", authHandler.Login)
	router.Post("/admin/logout", authHandler.Logout)

	// Admin routes - valid session token required
	router.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(sessions, logger))

		r.Get("/admin/menu", menuHandler.List)
		r.Post("/admin/menu", menuHandler.Create)
		r.Put("/admin/menu/{id}", menuHandler.Update)
		r.Delete("/admin/menu/{id}", menuHandler.Delete)
		r.Post("/admin/menu/seed", menuHandler.Seed)

		r.Get("/admin/orders", orderHandler.List)
		r.Put("/admin/orders/{reference}/status", orderHandler.UpdateStatus)

		r.Put("/admin/settings", settingsHandler.Update)
		r.Post("/admin/password", authHandler.ChangePassword)
	})
}
