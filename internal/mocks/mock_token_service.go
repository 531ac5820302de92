package mocks

import (
	"context"

	"github.com/you/passwordless/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	SendTokenFunc func(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (bool, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// SendToken issues and delivers a token
func (m *MockTokenService) SendToken(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (bool, error) {
	if m.SendTokenFunc != nil {
		return m.SendTokenFunc(ctx, user, aliasType, tokenType)
	}
	return true, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
