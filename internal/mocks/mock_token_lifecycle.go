package mocks

import (
	"context"

	"github.com/you/passwordless/domain"
)

// MockTokenLifecycle implements domain.TokenLifecycle interface for testing
type MockTokenLifecycle struct {
	IssueFunc              func(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (*domain.CallbackToken, error)
	ValidateAgeFunc        func(ctx context.Context, token *domain.CallbackToken) (bool, error)
	AuthenticateFunc       func(ctx context.Context, key string) (*domain.User, error)
	ConsumeVerifyTokenFunc func(ctx context.Context, userID uint, key string) error
	VerifyAliasFunc        func(ctx context.Context, user *domain.User, token *domain.CallbackToken) (bool, error)
}

// NewMockTokenLifecycle creates a new MockTokenLifecycle with default behaviors
func NewMockTokenLifecycle() *MockTokenLifecycle {
	return &MockTokenLifecycle{}
}

// Issue issues a token
func (m *MockTokenLifecycle) Issue(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (*domain.CallbackToken, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, user, aliasType, tokenType)
	}
	return &domain.CallbackToken{
		ID:          "mock-token",
		UserID:      user.ID,
		Key:         "123456",
		Type:        tokenType,
		ToAliasType: aliasType,
		ToAlias:     user.Alias(aliasType),
		IsActive:    true,
	}, nil
}

// ValidateAge validates a token's age
func (m *MockTokenLifecycle) ValidateAge(ctx context.Context, token *domain.CallbackToken) (bool, error) {
	if m.ValidateAgeFunc != nil {
		return m.ValidateAgeFunc(ctx, token)
	}
	return true, nil
}

// Authenticate authenticates by token key
func (m *MockTokenLifecycle) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, key)
	}
	return nil, domain.ErrTokenNotFound
}

// ConsumeVerifyToken consumes a verification token
func (m *MockTokenLifecycle) ConsumeVerifyToken(ctx context.Context, userID uint, key string) error {
	if m.ConsumeVerifyTokenFunc != nil {
		return m.ConsumeVerifyTokenFunc(ctx, userID, key)
	}
	return domain.ErrTokenNotFound
}

// VerifyAlias verifies a user's alias against a token snapshot
func (m *MockTokenLifecycle) VerifyAlias(ctx context.Context, user *domain.User, token *domain.CallbackToken) (bool, error) {
	if m.VerifyAliasFunc != nil {
		return m.VerifyAliasFunc(ctx, user, token)
	}
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.TokenLifecycle = (*MockTokenLifecycle)(nil)
