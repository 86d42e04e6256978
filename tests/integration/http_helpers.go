package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/trafficshawarma/storefront/internal/database"
	"github.com/trafficshawarma/storefront/internal/handlers"
	"github.com/trafficshawarma/storefront/internal/kvstore"
	middlewareCustom "github.com/trafficshawarma/storefront/internal/middleware"
	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/payments"
	"github.com/trafficshawarma/storefront/internal/routes"
	"github.com/trafficshawarma/storefront/internal/services"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// TestAdminUsername and TestAdminPassword seed the admin credential
// for integration tests.
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "integration_pw"
)

// SentEmail represents a captured order confirmation
type SentEmail struct {
	To      string
	OrderID string
	Amount  float64
}

// MockEmailService captures sent emails for test assertions
type MockEmailService struct {
	mu   sync.Mutex
	sent []SentEmail
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, to, orderID string, items []models.OrderItem, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, OrderID: orderID, Amount: amount})
	return nil
}

// GetLastEmail returns the most recent email sent
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return &m.sent[len(m.sent)-1]
}

// MockPaymentProvider fabricates successful transactions without
// talking to Paystack.
type MockPaymentProvider struct {
	mu      sync.Mutex
	counter int
}

func (m *MockPaymentProvider) Initialize(ctx context.Context, email string, amount float64, items any) (*payments.InitializeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	reference := fmt.Sprintf("test_ref_%d", m.counter)
	return &payments.InitializeResult{
		AuthorizationURL: "https://checkout.example.com/" + reference,
		AccessCode:       "code_" + reference,
		Reference:        reference,
	}, nil
}

func (m *MockPaymentProvider) Verify(ctx context.Context, reference string) (*payments.VerifyResult, error) {
	return &payments.VerifyResult{Status: "success", Reference: reference}, nil
}

// TestServer wraps httptest.Server with the full middleware and
// routing stack over a real PostgreSQL store.
type TestServer struct {
	Server       *httptest.Server
	Store        kvstore.Store
	EmailService *MockEmailService
	logger       *slog.Logger
}

// NewTestServer wires the full application against the given database
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	auditLogger := pkglogger.NewAuditLogger(logger)

	store := kvstore.NewPostgresStore(db)

	credentialService := services.NewCredentialService(store, TestAdminUsername, TestAdminPassword, logger)
	rateLimitService := services.NewRateLimitService(store, services.RateLimitConfig{
		MaxAttempts:     5,
		AttemptWindow:   5 * time.Minute,
		LockoutDuration: 15 * time.Minute,
	}, logger)
	sessionService := services.NewSessionService(store, services.SessionConfig{
		SessionDuration: 24 * time.Hour,
		ActivityTimeout: 2 * time.Hour,
	}, logger)
	authService := services.NewAuthService(store, credentialService, rateLimitService, sessionService, logger, auditLogger)

	emailService := &MockEmailService{}
	paymentProvider := &MockPaymentProvider{}

	menuService := services.NewMenuService(store, logger)
	orderService := services.NewOrderService(store, paymentProvider, emailService, logger)
	settingsService := services.NewSettingsService(store, logger)

	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, credentialService, auditLogger, nil)
	menuHandler := handlers.NewMenuHandler(menuService, auditLogger)
	orderHandler := handlers.NewOrderHandler(orderService, auditLogger)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditLogger)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	router.Use(chiMiddleware.Recoverer)

	// The per-IP login limiter is raised well above the suite's request
	// count: every request here comes from 127.0.0.1, and the limiter's
	// in-memory bucket is never reset between tests. The per-username
	// lockout under test is enforced by the auth service independently.
	loginRateLimit := middlewareCustom.RateLimitConfig{Requests: 1000, Window: time.Minute}
	routes.RegisterRoutes(router, healthHandler, authHandler, menuHandler, orderHandler, settingsHandler, sessionService, loginRateLimit, logger)

	return &TestServer{
		Server:       httptest.NewServer(router),
		Store:        store,
		EmailService: emailService,
		logger:       logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// PostJSON sends a JSON POST request with optional admin token
func (ts *TestServer) PostJSON(path, token string, body any) (*http.Response, error) {
	return ts.request(http.MethodPost, path, token, body)
}

// PutJSON sends a JSON PUT request with optional admin token
func (ts *TestServer) PutJSON(path, token string, body any) (*http.Response, error) {
	return ts.request(http.MethodPut, path, token, body)
}

// Get sends a GET request with optional admin token
func (ts *TestServer) Get(path, token string) (*http.Response, error) {
	return ts.request(http.MethodGet, path, token, nil)
}

func (ts *TestServer) request(method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middlewareCustom.AdminTokenHeader, token)
	}

	return ts.Server.Client().Do(req)
}

// DecodeBody decodes a JSON response body into v and closes it
func DecodeBody(resp *http.Response, v any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}
