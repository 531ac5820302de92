package mocks

import (
	"context"

	"github.com/you/passwordless/domain"
)

// MockTokenRepository implements domain.TokenRepository interface for testing
type MockTokenRepository struct {
	CreateFunc            func(ctx context.Context, token *domain.CallbackToken) error
	FindActiveByKeyFunc   func(ctx context.Context, key string, tokenType domain.TokenType) (*domain.CallbackToken, error)
	FindActiveForUserFunc func(ctx context.Context, userID uint, tokenType domain.TokenType) ([]*domain.CallbackToken, error)
	DeactivateFunc        func(ctx context.Context, token *domain.CallbackToken) (bool, error)
	DeactivateOthersFunc  func(ctx context.Context, token *domain.CallbackToken) error
	DeleteFunc            func(ctx context.Context, token *domain.CallbackToken) error
}

// NewMockTokenRepository creates a new MockTokenRepository with default behaviors
func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{}
}

// Create inserts a token
func (m *MockTokenRepository) Create(ctx context.Context, token *domain.CallbackToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	return nil
}

// FindActiveByKey finds an active token by key
func (m *MockTokenRepository) FindActiveByKey(ctx context.Context, key string, tokenType domain.TokenType) (*domain.CallbackToken, error) {
	if m.FindActiveByKeyFunc != nil {
		return m.FindActiveByKeyFunc(ctx, key, tokenType)
	}
	return nil, domain.ErrTokenNotFound
}

// FindActiveForUser finds all active tokens of a type for a user
func (m *MockTokenRepository) FindActiveForUser(ctx context.Context, userID uint, tokenType domain.TokenType) ([]*domain.CallbackToken, error) {
	if m.FindActiveForUserFunc != nil {
		return m.FindActiveForUserFunc(ctx, userID, tokenType)
	}
	return nil, nil
}

// Deactivate conditionally flips is_active
func (m *MockTokenRepository) Deactivate(ctx context.Context, token *domain.CallbackToken) (bool, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, token)
	}
	token.IsActive = false
	return true, nil
}

// DeactivateOthers invalidates other active tokens of the same user and type
func (m *MockTokenRepository) DeactivateOthers(ctx context.Context, token *domain.CallbackToken) error {
	if m.DeactivateOthersFunc != nil {
		return m.DeactivateOthersFunc(ctx, token)
	}
	return nil
}

// Delete removes a token
func (m *MockTokenRepository) Delete(ctx context.Context, token *domain.CallbackToken) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}

// InTx runs fn against the same mock; tests assert call ordering instead of
// transactional behavior
func (m *MockTokenRepository) InTx(ctx context.Context, fn func(repo domain.TokenRepository) error) error {
	return fn(m)
}

// Compile-time interface compliance verification
var _ domain.TokenRepository = (*MockTokenRepository)(nil)
