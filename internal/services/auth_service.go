package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/trafficshawarma/storefront/internal/kvstore"
	"github.com/trafficshawarma/storefront/internal/models"
	pkgauth "github.com/trafficshawarma/storefront/pkg/auth"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// AuthResult is the structured outcome of an admin login attempt.
// RemainingAttempts is the count shown to the UI after this failure,
// i.e. the pre-attempt remainder minus one.
type AuthResult struct {
	Success           bool       `json:"success"`
	Token             string     `json:"token,omitempty"`
	Username          string     `json:"username,omitempty"`
	Error             string     `json:"error,omitempty"`
	RemainingAttempts *int       `json:"remainingAttempts,omitempty"`
	LockedUntil       *time.Time `json:"lockedUntil,omitempty"`
}

// AuthService orchestrates the rate limiter, credential store, and
// session manager for admin authentication.
type AuthService struct {
	store       kvstore.Store
	credentials *CredentialService
	rateLimiter *RateLimitService
	sessions    *SessionService
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	store kvstore.Store,
	credentials *CredentialService,
	rateLimiter *RateLimitService,
	sessions *SessionService,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		store:       store,
		credentials: credentials,
		rateLimiter: rateLimiter,
		sessions:    sessions,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AuthenticateAdmin validates a username/password pair and issues a
// session token on success. Credential mismatches and credential
// store inconsistencies are reported identically to the caller so the
// response never reveals which check failed; both count against the
// rate limiter.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, username, password, ipAddress string) (*AuthResult, error) {
	rateCheck, err := s.rateLimiter.CheckRateLimit(ctx, username)
	if err != nil {
		return nil, err
	}

	if !rateCheck.Allowed {
		minutesLocked := int(math.Ceil(time.Until(*rateCheck.LockedUntil).Minutes()))
		s.logger.Warn("login rejected: rate limited",
			slog.String("username", username),
			slog.Int("minutes_locked", minutesLocked))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "admin_login",
			Username:      username,
			IPAddress:     ipAddress,
			FailureReason: "rate_limited",
			Success:       false,
		})
		return &AuthResult{
			Success:     false,
			Error:       fmt.Sprintf("Too many failed attempts. Account locked for %d minutes.", minutesLocked),
			LockedUntil: rateCheck.LockedUntil,
		}, nil
	}

	if err := s.credentials.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	cred, err := s.credentials.Get(ctx)
	if err != nil {
		return nil, err
	}

	if cred == nil || username != cred.Username || !pkgauth.VerifyPassword(password, cred.PasswordHash) {
		if err := s.rateLimiter.RecordLoginAttempt(ctx, username, false); err != nil {
			return nil, err
		}
		remaining := rateCheck.RemainingAttempts - 1
		s.logger.Info("login failed: invalid credentials")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "admin_login",
			Username:      username,
			IPAddress:     ipAddress,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		return &AuthResult{
			Success:           false,
			Error:             "Invalid credentials",
			RemainingAttempts: &remaining,
		}, nil
	}

	if err := s.rateLimiter.RecordLoginAttempt(ctx, username, true); err != nil {
		return nil, err
	}

	token, err := s.sessions.CreateSession(ctx, username, ipAddress)
	if err != nil {
		return nil, err
	}

	// Append-only audit trail in the store, alongside the structured log.
	event := models.SecurityEvent{
		Username:  username,
		Timestamp: time.Now(),
		IPAddress: ipAddress,
		Success:   true,
	}
	eventKey := fmt.Sprintf("security:login:%d", time.Now().UnixMilli())
	if err := s.store.Set(ctx, eventKey, event); err != nil {
		s.logger.Error("failed to record security event", slog.Any("error", err))
	}

	s.logger.Info("admin login successful",
		slog.String("username", username),
		slog.String("ip_address", ipAddress))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "admin_login",
		Username:  username,
		IPAddress: ipAddress,
		Success:   true,
	})

	return &AuthResult{
		Success:  true,
		Token:    token,
		Username: username,
	}, nil
}

// Logout invalidates the session for the given token. Unknown tokens
// are ignored, making logout idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.InvalidateSession(ctx, token)
}
