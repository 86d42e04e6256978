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

// RateLimitConfig holds the login attempt limiting parameters.
type RateLimitConfig struct {
	MaxAttempts     int
	AttemptWindow   time.Duration
	LockoutDuration time.Duration
}

// RateLimitService tracks failed login attempts per identifier (the
// attempted username) in the key-value store, escalating to a timed
// lockout once the threshold is exceeded within the attempt window.
//
// The window is anchored to the time since the last attempt, not a
// fixed calendar window. A stale record is treated as absent rather
// than deleted; the next recorded failure overwrites it. The
// read-modify-write on the record is not atomic relative to the
// store, so two concurrent failures can under- or over-count by one;
// tolerable for a single-admin login endpoint.
type RateLimitService struct {
	store  kvstore.Store
	config RateLimitConfig
	logger *slog.Logger
}

// NewRateLimitService creates a new RateLimitService.
func NewRateLimitService(store kvstore.Store, config RateLimitConfig, logger *slog.Logger) *RateLimitService {
	return &RateLimitService{
		store:  store,
		config: config,
		logger: logger,
	}
}

func rateLimitKey(identifier string) string {
	return "ratelimit:login:" + identifier
}

// CheckRateLimit decides whether a login attempt for the identifier
// may proceed. Crossing the attempt threshold here persists the
// lockout timestamp, making the lockout authoritative until it
// expires regardless of later window decay.
func (s *RateLimitService) CheckRateLimit(ctx context.Context, identifier string) (*models.RateLimitResult, error) {
	record, err := s.getAttempt(ctx, identifier)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if record != nil && record.LockedUntil != nil && now.Before(*record.LockedUntil) {
		return &models.RateLimitResult{
			Allowed:           false,
			RemainingAttempts: 0,
			LockedUntil:       record.LockedUntil,
		}, nil
	}

	// Fresh window: no record, or the last attempt is older than the
	// window. The stored record is not reset here; the next recorded
	// attempt overwrites it.
	if record == nil || now.Sub(record.LastAttempt) > s.config.AttemptWindow {
		return &models.RateLimitResult{
			Allowed:           true,
			RemainingAttempts: s.config.MaxAttempts,
		}, nil
	}

	if record.Attempts >= s.config.MaxAttempts {
		lockedUntil := now.Add(s.config.LockoutDuration)
		record.LockedUntil = &lockedUntil
		if err := s.store.Set(ctx, rateLimitKey(identifier), record); err != nil {
			return nil, fmt.Errorf("failed to persist lockout: %w", err)
		}

		s.logger.Warn("identifier locked out",
			slog.String("identifier", identifier),
			slog.Int("attempts", record.Attempts),
			slog.Time("locked_until", lockedUntil))

		return &models.RateLimitResult{
			Allowed:           false,
			RemainingAttempts: 0,
			LockedUntil:       &lockedUntil,
		}, nil
	}

	return &models.RateLimitResult{
		Allowed:           true,
		RemainingAttempts: s.config.MaxAttempts - record.Attempts,
	}, nil
}

// RecordLoginAttempt records the outcome of a login attempt. Success
// deletes the record entirely; failure starts or extends the counter.
func (s *RateLimitService) RecordLoginAttempt(ctx context.Context, identifier string, success bool) error {
	key := rateLimitKey(identifier)

	if success {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear login attempts: %w", err)
		}
		return nil
	}

	record, err := s.getAttempt(ctx, identifier)
	if err != nil {
		return err
	}

	now := time.Now()

	if record == nil || now.Sub(record.LastAttempt) > s.config.AttemptWindow {
		record = &models.LoginAttempt{Attempts: 1, LastAttempt: now}
	} else {
		record.Attempts++
		record.LastAttempt = now
		// LockedUntil, if present, is carried over untouched.
	}

	if err := s.store.Set(ctx, key, record); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	return nil
}

func (s *RateLimitService) getAttempt(ctx context.Context, identifier string) (*models.LoginAttempt, error) {
	raw, err := s.store.Get(ctx, rateLimitKey(identifier))
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load login attempts: %w", err)
	}

	var record models.LoginAttempt
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode login attempts: %w", err)
	}

	return &record, nil
}
