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

const settingsKey = "settings:general"

// SettingsService manages the storefront settings record.
type SettingsService struct {
	store  kvstore.Store
	logger *slog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store kvstore.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// Get returns the stored settings, or the compiled-in defaults when
// none have been saved yet.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	raw, err := s.store.Get(ctx, settingsKey)
	if errors.Is(err, models.ErrNotFound) {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	return &settings, nil
}

// Update overwrites the settings record.
func (s *SettingsService) Update(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	now := time.Now()
	settings.UpdatedAt = &now

	if err := s.store.Set(ctx, settingsKey, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("settings updated")
	return &settings, nil
}
