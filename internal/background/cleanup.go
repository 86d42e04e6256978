package background

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
)

// retainSecurityEvents is how long security:login audit entries are
// kept in the store before the sweeper drops them.
const retainSecurityEvents = 30 * 24 * time.Hour

// CleanupManager periodically sweeps stale records out of the store:
// expired sessions, decayed rate-limit records, and aged security
// events. Expiry is already enforced lazily on access, so this is
// garbage collection, not correctness.
type CleanupManager struct {
	store           kvstore.Store
	logger          *slog.Logger
	interval        time.Duration
	attemptWindow   time.Duration
	lockoutDuration time.Duration
	stopCh          chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	store kvstore.Store,
	logger *slog.Logger,
	interval, attemptWindow, lockoutDuration time.Duration,
) *CleanupManager {
	return &CleanupManager{
		store:           store,
		logger:          logger,
		interval:        interval,
		attemptWindow:   attemptWindow,
		lockoutDuration: lockoutDuration,
		stopCh:          make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted := cm.sweepSessions(cleanupCtx)
	deleted += cm.sweepRateLimits(cleanupCtx)
	deleted += cm.sweepSecurityEvents(cleanupCtx)

	if deleted > 0 {
		cm.logger.Info("store cleanup completed", slog.Int("records_deleted", deleted))
	}
}

// sweepSessions removes sessions past their absolute expiry. Sessions
// that are merely inactive are left for the lazy check; their absolute
// expiry collects them here eventually.
func (cm *CleanupManager) sweepSessions(ctx context.Context) int {
	entries, err := cm.store.ListByPrefix(ctx, "session:")
	if err != nil {
		cm.logger.Error("session sweep failed", slog.Any("error", err))
		return 0
	}

	now := time.Now()
	deleted := 0
	for _, entry := range entries {
		var session models.Session
		if err := json.Unmarshal(entry.Value, &session); err != nil {
			continue
		}
		if now.After(session.ExpiresAt) {
			if err := cm.store.Delete(ctx, entry.Key); err == nil {
				deleted++
			}
		}
	}
	return deleted
}

// sweepRateLimits removes rate-limit records whose window and lockout
// have both decayed.
func (cm *CleanupManager) sweepRateLimits(ctx context.Context) int {
	entries, err := cm.store.ListByPrefix(ctx, "ratelimit:login:")
	if err != nil {
		cm.logger.Error("rate limit sweep failed", slog.Any("error", err))
		return 0
	}

	now := time.Now()
	deleted := 0
	for _, entry := range entries {
		var attempt models.LoginAttempt
		if err := json.Unmarshal(entry.Value, &attempt); err != nil {
			continue
		}
		if attempt.LockedUntil != nil && now.Before(*attempt.LockedUntil) {
			continue
		}
		if now.Sub(attempt.LastAttempt) <= cm.attemptWindow {
			continue
		}
		if err := cm.store.Delete(ctx, entry.Key); err == nil {
			deleted++
		}
	}
	return deleted
}

func (cm *CleanupManager) sweepSecurityEvents(ctx context.Context) int {
	entries, err := cm.store.ListByPrefix(ctx, "security:login:")
	if err != nil {
		cm.logger.Error("security event sweep failed", slog.Any("error", err))
		return 0
	}

	cutoff := time.Now().Add(-retainSecurityEvents)
	deleted := 0
	for _, entry := range entries {
		var event models.SecurityEvent
		if err := json.Unmarshal(entry.Value, &event); err != nil {
			continue
		}
		if event.Timestamp.Before(cutoff) {
			if err := cm.store.Delete(ctx, entry.Key); err == nil {
				deleted++
			}
		}
	}
	return deleted
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
