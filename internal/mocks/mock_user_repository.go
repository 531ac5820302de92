package mocks

import (
	"context"

	"github.com/you/passwordless/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc           func(ctx context.Context, user *domain.User) error
	FindByAliasFunc      func(ctx context.Context, aliasType domain.AliasType, alias string) (*domain.User, error)
	FindByIDFunc         func(ctx context.Context, id uint) (*domain.User, error)
	UpdateFunc           func(ctx context.Context, user *domain.User) error
	SetAliasVerifiedFunc func(ctx context.Context, userID uint, aliasType domain.AliasType) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

// FindByAlias finds a user by alias
func (m *MockUserRepository) FindByAlias(ctx context.Context, aliasType domain.AliasType, alias string) (*domain.User, error) {
	if m.FindByAliasFunc != nil {
		return m.FindByAliasFunc(ctx, aliasType, alias)
	}
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// SetAliasVerified marks an alias verified
func (m *MockUserRepository) SetAliasVerified(ctx context.Context, userID uint, aliasType domain.AliasType) error {
	if m.SetAliasVerifiedFunc != nil {
		return m.SetAliasVerifiedFunc(ctx, userID, aliasType)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
