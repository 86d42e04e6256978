package handlers_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/payments"
	"github.com/trafficshawarma/storefront/internal/services"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

func newTestAuditLogger() *pkglogger.AuditLogger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return pkglogger.NewAuditLogger(logger)
}

type mockAuthService struct {
	AuthenticateAdminFunc func(ctx context.Context, username, password, ipAddress string) (*services.AuthResult, error)
	LogoutFunc            func(ctx context.Context, token string) error
}

func (m *mockAuthService) AuthenticateAdmin(ctx context.Context, username, password, ipAddress string) (*services.AuthResult, error) {
	return m.AuthenticateAdminFunc(ctx, username, password, ipAddress)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

type mockCredentialService struct {
	ChangePasswordFunc func(ctx context.Context, oldPassword, newPassword string) error
}

func (m *mockCredentialService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return m.ChangePasswordFunc(ctx, oldPassword, newPassword)
}

type mockMenuService struct {
	ListFunc     func(ctx context.Context) ([]models.MenuItem, error)
	GetFunc      func(ctx context.Context, id string) (*models.MenuItem, error)
	CreateFunc   func(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	UpdateFunc   func(ctx context.Context, id string, updates models.MenuItemUpdate) (*models.MenuItem, error)
	DeleteFunc   func(ctx context.Context, id string) error
	SeedMenuFunc func(ctx context.Context) (int, int, error)
}

func (m *mockMenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return m.ListFunc(ctx)
}

func (m *mockMenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockMenuService) Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	return m.CreateFunc(ctx, item)
}

func (m *mockMenuService) Update(ctx context.Context, id string, updates models.MenuItemUpdate) (*models.MenuItem, error) {
	return m.UpdateFunc(ctx, id, updates)
}

func (m *mockMenuService) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockMenuService) SeedMenu(ctx context.Context) (int, int, error) {
	return m.SeedMenuFunc(ctx)
}

type mockOrderService struct {
	InitializePaymentFunc func(ctx context.Context, email string, amount float64, items []models.OrderItem) (*payments.InitializeResult, error)
	VerifyPaymentFunc     func(ctx context.Context, reference string) (*payments.VerifyResult, error)
	GetFunc               func(ctx context.Context, reference string) (*models.Order, error)
	ListFunc              func(ctx context.Context) ([]models.Order, error)
	UpdateStatusFunc      func(ctx context.Context, reference, status string) (*models.Order, error)
}

func (m *mockOrderService) InitializePayment(ctx context.Context, email string, amount float64, items []models.OrderItem) (*payments.InitializeResult, error) {
	return m.InitializePaymentFunc(ctx, email, amount, items)
}

func (m *mockOrderService) VerifyPayment(ctx context.Context, reference string) (*payments.VerifyResult, error) {
	return m.VerifyPaymentFunc(ctx, reference)
}

func (m *mockOrderService) Get(ctx context.Context, reference string) (*models.Order, error) {
	return m.GetFunc(ctx, reference)
}

func (m *mockOrderService) List(ctx context.Context) ([]models.Order, error) {
	return m.ListFunc(ctx)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, reference, status string) (*models.Order, error) {
	return m.UpdateStatusFunc(ctx, reference, status)
}

type mockSettingsService struct {
	GetFunc    func(ctx context.Context) (*models.Settings, error)
	UpdateFunc func(ctx context.Context, settings models.Settings) (*models.Settings, error)
}

func (m *mockSettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return m.GetFunc(ctx)
}

func (m *mockSettingsService) Update(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	return m.UpdateFunc(ctx, settings)
}
