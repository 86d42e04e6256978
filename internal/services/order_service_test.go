package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/payments"
	"github.com/trafficshawarma/storefront/internal/services"
)

func TestInitializePaymentStoresPendingOrder(t *testing.T) {
	store := kvstore.NewMemoryStore()
	provider := &mockPaymentProvider{
		InitializeFunc: func(ctx context.Context, email string, amount float64, items any) (*payments.InitializeResult, error) {
			return &payments.InitializeResult{
				AuthorizationURL: "https://checkout.paystack.com/abc",
				AccessCode:       "abc",
				Reference:        "ref_123",
			}, nil
		},
	}
	email := &mockEmailService{}
	svc := services.NewOrderService(store, provider, email, newTestLogger())
	ctx := context.Background()

	items := []models.OrderItem{{Name: "Chicken Shawarma", Quantity: 2, Price: 35}}
	result, err := svc.InitializePayment(ctx, "customer@example.com", 70, items)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)

	order, err := svc.Get(ctx, "ref_123")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "customer@example.com", order.Email)
	assert.Equal(t, float64(70), order.Amount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestInitializePaymentSurvivesStoreFailure(t *testing.T) {
	provider := &mockPaymentProvider{}
	svc := services.NewOrderService(failingStore{}, provider, &mockEmailService{}, newTestLogger())

	// The customer can still pay even if the order record was lost.
	result, err := svc.InitializePayment(context.Background(), "customer@example.com", 70, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AuthorizationURL)
}

func TestVerifyPaymentSuccessSendsConfirmation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	provider := &mockPaymentProvider{
		VerifyFunc: func(ctx context.Context, reference string) (*payments.VerifyResult, error) {
			return &payments.VerifyResult{Status: "success", Reference: reference, Amount: 7000}, nil
		},
	}
	email := &mockEmailService{}
	svc := services.NewOrderService(store, provider, email, newTestLogger())
	ctx := context.Background()

	_, err := svc.InitializePayment(ctx, "customer@example.com", 70, []models.OrderItem{
		{Name: "Chicken Shawarma", Quantity: 2, Price: 35},
	})
	require.NoError(t, err)

	result, err := svc.VerifyPayment(ctx, "ref_test")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)

	order, err := svc.Get(ctx, "ref_test")
	require.NoError(t, err)
	assert.Equal(t, "success", order.Status)
	require.NotNil(t, order.VerifiedAt)

	sent := email.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "customer@example.com", sent[0].To)
	assert.Equal(t, "ref_test", sent[0].OrderID)
	assert.Equal(t, float64(70), sent[0].Amount)
}

func TestVerifyPaymentFailedNoConfirmation(t *testing.T) {
	store := kvstore.NewMemoryStore()
	provider := &mockPaymentProvider{
		VerifyFunc: func(ctx context.Context, reference string) (*payments.VerifyResult, error) {
			return &payments.VerifyResult{Status: "failed", Reference: reference}, nil
		},
	}
	email := &mockEmailService{}
	svc := services.NewOrderService(store, provider, email, newTestLogger())
	ctx := context.Background()

	_, err := svc.InitializePayment(ctx, "customer@example.com", 70, nil)
	require.NoError(t, err)

	result, err := svc.VerifyPayment(ctx, "ref_test")
	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status)

	order, err := svc.Get(ctx, "ref_test")
	require.NoError(t, err)
	assert.Equal(t, "failed", order.Status)

	assert.Empty(t, email.Sent())
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	svc := services.NewOrderService(kvstore.NewMemoryStore(), &mockPaymentProvider{}, &mockEmailService{}, newTestLogger())

	// No stored order: the provider result still stands.
	result, err := svc.VerifyPayment(context.Background(), "ref_unknown")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
}

func TestOrderListNewestFirst(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := services.NewOrderService(store, &mockPaymentProvider{}, &mockEmailService{}, newTestLogger())
	ctx := context.Background()

	base := time.Now()
	for i, ref := range []string{"ref_a", "ref_b", "ref_c"} {
		order := models.Order{
			OrderID:   ref,
			Status:    models.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Set(ctx, "order:"+ref, order))
	}

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ref_c", orders[0].OrderID)
	assert.Equal(t, "ref_a", orders[2].OrderID)
}

func TestOrderUpdateStatus(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := services.NewOrderService(store, &mockPaymentProvider{}, &mockEmailService{}, newTestLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "order:ref_1", models.Order{
		OrderID:   "ref_1",
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}))

	updated, err := svc.UpdateStatus(ctx, "ref_1", models.OrderStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, updated.Status)
	require.NotNil(t, updated.UpdatedAt)

	_, err = svc.UpdateStatus(ctx, "ref_1", "shipped")
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = svc.UpdateStatus(ctx, "ref_missing", models.OrderStatusAccepted)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderGetNotFound(t *testing.T) {
	svc := services.NewOrderService(kvstore.NewMemoryStore(), &mockPaymentProvider{}, &mockEmailService{}, newTestLogger())

	_, err := svc.Get(context.Background(), "ref_missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
