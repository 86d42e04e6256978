package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/payments"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockPaymentProvider implements services.PaymentProvider for testing
type mockPaymentProvider struct {
	InitializeFunc func(ctx context.Context, email string, amount float64, items any) (*payments.InitializeResult, error)
	VerifyFunc     func(ctx context.Context, reference string) (*payments.VerifyResult, error)
}

func (m *mockPaymentProvider) Initialize(ctx context.Context, email string, amount float64, items any) (*payments.InitializeResult, error) {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, email, amount, items)
	}
	return &payments.InitializeResult{
		AuthorizationURL: "https://checkout.paystack.com/test",
		AccessCode:       "test_code",
		Reference:        "ref_test",
	}, nil
}

func (m *mockPaymentProvider) Verify(ctx context.Context, reference string) (*payments.VerifyResult, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return &payments.VerifyResult{Status: "success", Reference: reference, Amount: 1000}, nil
}

// sentEmail is one captured order confirmation
type sentEmail struct {
	To      string
	OrderID string
	Amount  float64
}

// mockEmailService captures confirmations for test assertions
type mockEmailService struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *mockEmailService) SendOrderConfirmation(ctx context.Context, to, orderID string, items []models.OrderItem, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{To: to, OrderID: orderID, Amount: amount})
	return nil
}

func (m *mockEmailService) Sent() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

var errStoreDown = errors.New("store unreachable")

// failingStore simulates an unreachable key-value store
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, errStoreDown }
func (failingStore) Set(ctx context.Context, key string, value any) error {
	return errStoreDown
}
func (failingStore) Delete(ctx context.Context, key string) error { return errStoreDown }
func (failingStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	return nil, errStoreDown
}
func (failingStore) ListByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	return nil, errStoreDown
}
