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
	pkgauth "github.com/trafficshawarma/storefront/pkg/auth"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// SessionConfig holds session lifetime parameters.
type SessionConfig struct {
	SessionDuration time.Duration // absolute lifetime
	ActivityTimeout time.Duration // sliding inactivity limit
}

// SessionService issues, validates, and revokes admin session tokens.
// Expiry is enforced lazily at validation time; stale records are
// deleted on access rather than swept eagerly, so correctness never
// depends on a background job.
type SessionService struct {
	store  kvstore.Store
	config SessionConfig
	logger *slog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(store kvstore.Store, config SessionConfig, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		config: config,
		logger: logger,
	}
}

func sessionKey(token string) string {
	return "session:" + token
}

// CreateSession issues a new session token for the username. The
// optional ipAddress is recorded for audit purposes only.
func (s *SessionService) CreateSession(ctx context.Context, username, ipAddress string) (string, error) {
	token := pkgauth.GenerateSessionToken(username)
	now := time.Now()

	session := models.Session{
		Token:        token,
		Username:     username,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.config.SessionDuration),
		LastActivity: now,
		IPAddress:    ipAddress,
	}

	if err := s.store.Set(ctx, sessionKey(token), session); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("session created",
		slog.String("username", username),
		slog.Duration("expires_in", s.config.SessionDuration))

	return token, nil
}

// ValidateSession checks a token against the store, deleting the
// record when it has passed its absolute expiry or its inactivity
// timeout. On success the session's last-activity timestamp is
// refreshed, so accesses spaced inside the timeout keep the session
// alive up to the absolute cap.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (*models.SessionValidation, error) {
	raw, err := s.store.Get(ctx, sessionKey(token))
	if errors.Is(err, models.ErrNotFound) {
		return &models.SessionValidation{Valid: false, Reason: models.SessionReasonNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	now := time.Now()

	if now.After(session.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionKey(token))
		return &models.SessionValidation{Valid: false, Reason: models.SessionReasonExpired}, nil
	}

	if now.Sub(session.LastActivity) > s.config.ActivityTimeout {
		_ = s.store.Delete(ctx, sessionKey(token))
		return &models.SessionValidation{Valid: false, Reason: models.SessionReasonInactive}, nil
	}

	session.LastActivity = now
	if err := s.store.Set(ctx, sessionKey(token), session); err != nil {
		return nil, fmt.Errorf("failed to refresh session activity: %w", err)
	}

	return &models.SessionValidation{Valid: true, Username: session.Username}, nil
}

// InvalidateSession deletes the session record. Idempotent; deleting
// an unknown token is not an error.
func (s *SessionService) InvalidateSession(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	s.logger.Info("session invalidated", slog.String("token", pkglogger.SanitizedToken(token)))
	return nil
}
