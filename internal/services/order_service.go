package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
	"github.com/trafficshawarma/storefront/internal/payments"
)

const orderKeyPrefix = "order:"

// PaymentProvider is the slice of the payment gateway the order flow
// needs.
type PaymentProvider interface {
	Initialize(ctx context.Context, email string, amount float64, items any) (*payments.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*payments.VerifyResult, error)
}

// OrderService manages customer orders: creation on payment
// initialization, settlement on verification, and admin status
// transitions.
type OrderService struct {
	store    kvstore.Store
	provider PaymentProvider
	email    EmailService
	logger   *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(store kvstore.Store, provider PaymentProvider, email EmailService, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:    store,
		provider: provider,
		email:    email,
		logger:   logger,
	}
}

func orderKey(reference string) string {
	return orderKeyPrefix + reference
}

// InitializePayment starts a provider transaction and records a
// pending order under the provider's reference. A store write failure
// is logged but does not fail the initialization; the customer can
// still pay.
func (s *OrderService) InitializePayment(ctx context.Context, email string, amount float64, items []models.OrderItem) (*payments.InitializeResult, error) {
	result, err := s.provider.Initialize(ctx, email, amount, items)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderID:   result.Reference,
		Email:     email,
		Amount:    amount,
		Items:     items,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.store.Set(ctx, orderKey(result.Reference), order); err != nil {
		s.logger.Error("failed to store order, payment proceeds anyway",
			slog.String("reference", result.Reference),
			slog.Any("error", err))
	} else {
		s.logger.Info("order stored", slog.String("reference", result.Reference))
	}

	return result, nil
}

// VerifyPayment checks the transaction status with the provider and
// updates the stored order. A settled payment triggers the order
// confirmation email when the order carries a customer address.
func (s *OrderService) VerifyPayment(ctx context.Context, reference string) (*payments.VerifyResult, error) {
	result, err := s.provider.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	order, err := s.Get(ctx, reference)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Order record never made it to the store; the provider
			// result still stands on its own.
			return result, nil
		}
		return nil, err
	}

	now := time.Now()
	order.Status = result.Status
	order.VerifiedAt = &now

	if err := s.store.Set(ctx, orderKey(reference), order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if result.Status == "success" && order.Email != "" {
		if err := s.email.SendOrderConfirmation(ctx, order.Email, reference, order.Items, order.Amount); err != nil {
			s.logger.Error("failed to send order confirmation",
				slog.String("reference", reference),
				slog.Any("error", err))
		} else {
			s.logger.Info("order confirmation sent",
				slog.String("reference", reference))
		}
	}

	return result, nil
}

// Get returns one order by reference.
func (s *OrderService) Get(ctx context.Context, reference string) (*models.Order, error) {
	raw, err := s.store.Get(ctx, orderKey(reference))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}

	return &order, nil
}

// List returns all orders, newest first. The store's prefix scan has
// no ordering guarantee, so sorting happens here.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	values, err := s.store.GetByPrefix(ctx, orderKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]models.Order, 0, len(values))
	for _, raw := range values {
		var order models.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// UpdateStatus sets an admin-controlled order status.
func (s *OrderService) UpdateStatus(ctx context.Context, reference, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, models.ErrBadRequest
	}

	order, err := s.Get(ctx, reference)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.Status = status
	order.UpdatedAt = &now

	if err := s.store.Set(ctx, orderKey(reference), order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info("order status updated",
		slog.String("reference", reference),
		slog.String("status", status))

	return order, nil
}
