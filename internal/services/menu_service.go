package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
)

const menuKeyPrefix = "menu:"

// MenuService manages menu items in the key-value store.
type MenuService struct {
	store  kvstore.Store
	logger *slog.Logger
}

// NewMenuService creates a new MenuService.
func NewMenuService(store kvstore.Store, logger *slog.Logger) *MenuService {
	return &MenuService{store: store, logger: logger}
}

func menuKey(id string) string {
	return menuKeyPrefix + id
}

// List returns all menu items. No ordering is guaranteed by the
// store's prefix scan; the storefront groups by category client-side.
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	values, err := s.store.GetByPrefix(ctx, menuKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	items := make([]models.MenuItem, 0, len(values))
	for _, raw := range values {
		var item models.MenuItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to decode menu item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// Get returns one menu item by id.
func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	raw, err := s.store.Get(ctx, menuKey(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}

	var item models.MenuItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode menu item: %w", err)
	}

	return &item, nil
}

// Create stores a new menu item. A missing id is generated from the
// creation time; a missing image falls back to the stock photo.
func (s *MenuService) Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	if item.Name == "" || item.Price <= 0 || item.Category == "" {
		return nil, models.ErrBadRequest
	}

	if item.ID == "" {
		item.ID = fmt.Sprintf("menu_%d", time.Now().UnixMilli())
	}
	if item.Image == "" {
		item.Image = models.DefaultMenuImage
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.store.Set(ctx, menuKey(item.ID), item); err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}

	s.logger.Info("menu item created",
		slog.String("id", item.ID),
		slog.String("name", item.Name))

	return &item, nil
}

// Update applies a partial update to an existing menu item. The id
// never changes.
func (s *MenuService) Update(ctx context.Context, id string, updates models.MenuItemUpdate) (*models.MenuItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		item.Name = *updates.Name
	}
	if updates.Description != nil {
		item.Description = *updates.Description
	}
	if updates.Price != nil {
		item.Price = *updates.Price
	}
	if updates.Category != nil {
		item.Category = *updates.Category
	}
	if updates.Image != nil {
		item.Image = *updates.Image
	}
	if updates.Available != nil {
		item.Available = *updates.Available
	}
	item.UpdatedAt = time.Now()

	if err := s.store.Set(ctx, menuKey(id), item); err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}

	s.logger.Info("menu item updated", slog.String("id", id))

	return item, nil
}

// Delete removes a menu item, failing with ErrNotFound if it does not
// exist.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, menuKey(id)); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.logger.Info("menu item deleted", slog.String("id", id))
	return nil
}
