package mocks

import (
	"context"

	"github.com/you/passwordless/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RequestTokenFunc             func(ctx context.Context, aliasType domain.AliasType, alias string) error
	ExchangeTokenFunc            func(ctx context.Context, key string) (*domain.AuthResult, error)
	RequestAliasVerificationFunc func(ctx context.Context, userID uint, aliasType domain.AliasType) error
	ConfirmAliasVerificationFunc func(ctx context.Context, userID uint, key string) error
	RefreshCredentialsFunc       func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc                   func(ctx context.Context, sessionID string) error
	GetUserProfileFunc           func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// RequestToken requests a login token for an alias
func (m *MockAuthService) RequestToken(ctx context.Context, aliasType domain.AliasType, alias string) error {
	if m.RequestTokenFunc != nil {
		return m.RequestTokenFunc(ctx, aliasType, alias)
	}
	return nil
}

// ExchangeToken exchanges a callback token for credentials
func (m *MockAuthService) ExchangeToken(ctx context.Context, key string) (*domain.AuthResult, error) {
	if m.ExchangeTokenFunc != nil {
		return m.ExchangeTokenFunc(ctx, key)
	}
	return nil, domain.ErrTokenInvalid
}

// RequestAliasVerification sends a verification token
func (m *MockAuthService) RequestAliasVerification(ctx context.Context, userID uint, aliasType domain.AliasType) error {
	if m.RequestAliasVerificationFunc != nil {
		return m.RequestAliasVerificationFunc(ctx, userID, aliasType)
	}
	return nil
}

// ConfirmAliasVerification confirms a verification token
func (m *MockAuthService) ConfirmAliasVerification(ctx context.Context, userID uint, key string) error {
	if m.ConfirmAliasVerificationFunc != nil {
		return m.ConfirmAliasVerificationFunc(ctx, userID, key)
	}
	return domain.ErrTokenInvalid
}

// RefreshCredentials refreshes credentials
func (m *MockAuthService) RefreshCredentials(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshCredentialsFunc != nil {
		return m.RefreshCredentialsFunc(ctx, refreshToken)
	}
	return nil, domain.ErrCredentialInvalid
}

// Logout deletes the session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// GetUserProfile returns the user profile
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
