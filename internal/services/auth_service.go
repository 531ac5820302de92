package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you/passwordless/domain"
)

// AuthConfig holds authentication flow settings
type AuthConfig struct {
	RegisterNewUsers  bool
	AllowedAliasTypes []domain.AliasType
	AccessTTL         time.Duration
	SessionTTL        time.Duration
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	lifecycle   domain.TokenLifecycle
	credentials domain.CredentialIssuer
	audit       domain.AuditLogger
	config      AuthConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	lifecycle domain.TokenLifecycle,
	credentials domain.CredentialIssuer,
	audit domain.AuditLogger,
	config AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		lifecycle:   lifecycle,
		credentials: credentials,
		audit:       audit,
		config:      config,
	}
}

// RequestToken implements domain.AuthService. An unknown alias registers a
// new user when enabled, otherwise the request fails.
func (s *AuthServiceImpl) RequestToken(ctx context.Context, aliasType domain.AliasType, alias string) error {
	if !s.aliasTypeAllowed(aliasType) {
		return domain.ErrAliasTypeNotAllowed
	}

	user, err := s.userRepo.FindByAlias(ctx, aliasType, alias)
	if errors.Is(err, domain.ErrUserNotFound) {
		if !s.config.RegisterNewUsers {
			return domain.ErrUserNotFound
		}
		user = &domain.User{IsActive: true}
		user.SetAlias(aliasType, alias)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
	} else if err != nil {
		return err
	}

	if !user.IsActive {
		return domain.ErrUserInactive
	}

	sent, err := s.tokenSvc.SendToken(ctx, user, aliasType, domain.TokenTypeAuth)
	if err != nil {
		return err
	}
	if !sent {
		return domain.ErrDeliveryFailed
	}
	return nil
}

// ExchangeToken implements domain.AuthService. All token rejection causes
// collapse into ErrTokenInvalid here; the audit log keeps the distinction.
func (s *AuthServiceImpl) ExchangeToken(ctx context.Context, key string) (*domain.AuthResult, error) {
	user, err := s.lifecycle.Authenticate(ctx, key)
	if err != nil {
		if isTokenRejection(err) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	result, err := s.issueCredentials(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent).WithUser(user.ID))
	return result, nil
}

// RequestAliasVerification implements domain.AuthService, sending a VERIFY
// token to the user's own alias of the given type.
func (s *AuthServiceImpl) RequestAliasVerification(ctx context.Context, userID uint, aliasType domain.AliasType) error {
	if !s.aliasTypeAllowed(aliasType) {
		return domain.ErrAliasTypeNotAllowed
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Alias(aliasType) == "" {
		return fmt.Errorf("account has no %s alias to verify", aliasType)
	}

	sent, err := s.tokenSvc.SendToken(ctx, user, aliasType, domain.TokenTypeVerify)
	if err != nil {
		return err
	}
	if !sent {
		return domain.ErrDeliveryFailed
	}
	return nil
}

// ConfirmAliasVerification implements domain.AuthService
func (s *AuthServiceImpl) ConfirmAliasVerification(ctx context.Context, userID uint, key string) error {
	err := s.lifecycle.ConsumeVerifyToken(ctx, userID, key)
	if err != nil {
		if isTokenRejection(err) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	return nil
}

// RefreshCredentials implements domain.AuthService
func (s *AuthServiceImpl) RefreshCredentials(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.credentials.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrCredentialInvalid
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.credentials.IssueAccessToken(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent))
	return s.sessionRepo.Delete(ctx, sessionID)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) issueCredentials(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	session := &domain.Session{
		ID:        fmt.Sprintf("sess_%d_%d", user.ID, time.Now().UnixNano()),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.config.SessionTTL),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.credentials.IssueAccessToken(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.credentials.IssueRefreshToken(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthServiceImpl) aliasTypeAllowed(aliasType domain.AliasType) bool {
	for _, allowed := range s.config.AllowedAliasTypes {
		if allowed == aliasType {
			return true
		}
	}
	return false
}

// isTokenRejection reports whether the error is an expected, user-triggerable
// token rejection rather than an infrastructure failure.
func isTokenRejection(err error) bool {
	return errors.Is(err, domain.ErrTokenNotFound) ||
		errors.Is(err, domain.ErrTokenExpired) ||
		errors.Is(err, domain.ErrTokenConsumed) ||
		errors.Is(err, domain.ErrAliasMismatch) ||
		errors.Is(err, domain.ErrUserNotFound)
}
