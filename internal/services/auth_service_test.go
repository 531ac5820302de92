package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/you/passwordless/domain"
	"github.com/you/passwordless/internal/mocks"
)

type authFixture struct {
	users     *mocks.MockUserRepository
	sessions  *mocks.MockSessionRepository
	tokenSvc  *mocks.MockTokenService
	lifecycle *mocks.MockTokenLifecycle
	creds     *mocks.MockCredentialIssuer
	audit     *mocks.MockAuditLogger
	svc       domain.AuthService
}

func newAuthFixture(config AuthConfig) *authFixture {
	f := &authFixture{
		users:     mocks.NewMockUserRepository(),
		sessions:  mocks.NewMockSessionRepository(),
		tokenSvc:  mocks.NewMockTokenService(),
		lifecycle: mocks.NewMockTokenLifecycle(),
		creds:     mocks.NewMockCredentialIssuer(),
		audit:     mocks.NewMockAuditLogger(),
	}
	f.svc = NewAuthService(f.users, f.sessions, f.tokenSvc, f.lifecycle, f.creds, f.audit, config)
	return f
}

func defaultAuthConfig() AuthConfig {
	return AuthConfig{
		RegisterNewUsers:  true,
		AllowedAliasTypes: []domain.AliasType{domain.AliasTypeEmail, domain.AliasTypeMobile},
		AccessTTL:         15 * time.Minute,
		SessionTTL:        24 * time.Hour,
	}
}

func TestAuthService_RequestTokenRegistersNewUser(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())

	var created *domain.User
	f.users.CreateFunc = func(ctx context.Context, user *domain.User) error {
		user.ID = 1
		created = user
		return nil
	}

	var sentTo *domain.User
	f.tokenSvc.SendTokenFunc = func(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (bool, error) {
		sentTo = user
		if tokenType != domain.TokenTypeAuth {
			t.Errorf("expected AUTH token, got %s", tokenType)
		}
		return true, nil
	}

	err := f.svc.RequestToken(context.Background(), domain.AliasTypeEmail, "new@example.com")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if created == nil || created.Email != "new@example.com" || !created.IsActive {
		t.Errorf("expected active user registered with the alias, got %+v", created)
	}
	if sentTo == nil || sentTo.ID != 1 {
		t.Error("expected token sent to the freshly registered user")
	}
}

func TestAuthService_RequestTokenUnknownAliasWithoutRegistration(t *testing.T) {
	config := defaultAuthConfig()
	config.RegisterNewUsers = false
	f := newAuthFixture(config)

	err := f.svc.RequestToken(context.Background(), domain.AliasTypeEmail, "nobody@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_RequestTokenDisallowedAliasType(t *testing.T) {
	config := defaultAuthConfig()
	config.AllowedAliasTypes = []domain.AliasType{domain.AliasTypeEmail}
	f := newAuthFixture(config)

	err := f.svc.RequestToken(context.Background(), domain.AliasTypeMobile, "+15551234567")
	if !errors.Is(err, domain.ErrAliasTypeNotAllowed) {
		t.Fatalf("expected ErrAliasTypeNotAllowed, got %v", err)
	}
}

func TestAuthService_RequestTokenInactiveUser(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.users.FindByAliasFunc = func(ctx context.Context, aliasType domain.AliasType, alias string) (*domain.User, error) {
		return &domain.User{ID: 1, Email: alias, IsActive: false}, nil
	}

	err := f.svc.RequestToken(context.Background(), domain.AliasTypeEmail, "blocked@example.com")
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_RequestTokenDeliveryFailure(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.users.FindByAliasFunc = func(ctx context.Context, aliasType domain.AliasType, alias string) (*domain.User, error) {
		return &domain.User{ID: 1, Email: alias, IsActive: true}, nil
	}
	f.tokenSvc.SendTokenFunc = func(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (bool, error) {
		return false, nil
	}

	err := f.svc.RequestToken(context.Background(), domain.AliasTypeEmail, "aaron@example.com")
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}

func TestAuthService_ExchangeTokenIssuesCredentials(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.lifecycle.AuthenticateFunc = func(ctx context.Context, key string) (*domain.User, error) {
		return &domain.User{ID: 42, Email: "aaron@example.com", IsActive: true}, nil
	}

	var createdSession *domain.Session
	f.sessions.CreateFunc = func(ctx context.Context, session *domain.Session) error {
		createdSession = session
		return nil
	}

	result, err := f.svc.ExchangeToken(context.Background(), "123456")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if result.User.ID != 42 {
		t.Errorf("expected user 42, got %d", result.User.ID)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected access and refresh tokens")
	}
	if createdSession == nil || createdSession.UserID != 42 {
		t.Error("expected a session created for the user")
	}
	if result.SessionID != createdSession.ID {
		t.Error("expected result bound to the created session")
	}
	if got := f.audit.EventsOfType(domain.UserLoginEvent); len(got) != 1 {
		t.Errorf("expected one login event, got %d", len(got))
	}
}

func TestAuthService_ExchangeTokenCollapsesRejections(t *testing.T) {
	rejections := []error{
		domain.ErrTokenNotFound,
		domain.ErrTokenExpired,
		domain.ErrTokenConsumed,
		domain.ErrAliasMismatch,
		domain.ErrUserNotFound,
	}

	for _, cause := range rejections {
		t.Run(cause.Error(), func(t *testing.T) {
			f := newAuthFixture(defaultAuthConfig())
			f.lifecycle.AuthenticateFunc = func(ctx context.Context, key string) (*domain.User, error) {
				return nil, cause
			}

			_, err := f.svc.ExchangeToken(context.Background(), "123456")
			if !errors.Is(err, domain.ErrTokenInvalid) {
				t.Fatalf("expected %v collapsed into ErrTokenInvalid, got %v", cause, err)
			}
		})
	}
}

func TestAuthService_ExchangeTokenInfrastructureErrorSurfaces(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	boom := errors.New("database connection lost")
	f.lifecycle.AuthenticateFunc = func(ctx context.Context, key string) (*domain.User, error) {
		return nil, boom
	}

	_, err := f.svc.ExchangeToken(context.Background(), "123456")
	if !errors.Is(err, boom) {
		t.Fatalf("infrastructure errors must not be masked, got %v", err)
	}
}

func TestAuthService_ExchangeTokenInactiveUser(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.lifecycle.AuthenticateFunc = func(ctx context.Context, key string) (*domain.User, error) {
		return &domain.User{ID: 42, IsActive: false}, nil
	}

	_, err := f.svc.ExchangeToken(context.Background(), "123456")
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_RequestAliasVerification(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.users.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return &domain.User{ID: id, Email: "aaron@example.com", IsActive: true}, nil
	}

	var gotType domain.TokenType
	f.tokenSvc.SendTokenFunc = func(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (bool, error) {
		gotType = tokenType
		return true, nil
	}

	if err := f.svc.RequestAliasVerification(context.Background(), 1, domain.AliasTypeEmail); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotType != domain.TokenTypeVerify {
		t.Errorf("expected VERIFY token, got %s", gotType)
	}
}

func TestAuthService_RequestAliasVerificationMissingAlias(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.users.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return &domain.User{ID: id, Email: "aaron@example.com", IsActive: true}, nil
	}

	err := f.svc.RequestAliasVerification(context.Background(), 1, domain.AliasTypeMobile)
	if err == nil {
		t.Fatal("expected error when the account has no alias of that type")
	}
}

func TestAuthService_ConfirmAliasVerificationCollapsesRejections(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.lifecycle.ConsumeVerifyTokenFunc = func(ctx context.Context, userID uint, key string) error {
		return domain.ErrAliasMismatch
	}

	err := f.svc.ConfirmAliasVerification(context.Background(), 1, "123456")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_RefreshCredentials(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.creds.ValidateRefreshTokenFunc = func(token string) (*domain.CredentialClaims, error) {
		return &domain.CredentialClaims{UserID: 42, SessionID: "sess_42_1"}, nil
	}
	f.sessions.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	f.users.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return &domain.User{ID: id, IsActive: true}, nil
	}

	result, err := f.svc.RefreshCredentials(context.Background(), "refresh-token")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected a fresh access token")
	}
	if result.RefreshToken != "refresh-token" {
		t.Error("expected the refresh token carried through")
	}
}

func TestAuthService_RefreshCredentialsExpiredSession(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())
	f.creds.ValidateRefreshTokenFunc = func(token string) (*domain.CredentialClaims, error) {
		return &domain.CredentialClaims{UserID: 42, SessionID: "sess_42_1"}, nil
	}
	f.sessions.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 42, ExpiresAt: time.Now().Add(-time.Minute)}, nil
	}

	_, err := f.svc.RefreshCredentials(context.Background(), "refresh-token")
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(defaultAuthConfig())

	var deleted string
	f.sessions.DeleteFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}

	if err := f.svc.Logout(context.Background(), "sess_42_1"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if deleted != "sess_42_1" {
		t.Errorf("expected session deleted, got %q", deleted)
	}
}
