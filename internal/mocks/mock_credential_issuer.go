package mocks

import (
	"fmt"

	"github.com/you/passwordless/domain"
)

// MockCredentialIssuer implements domain.CredentialIssuer interface for testing
type MockCredentialIssuer struct {
	IssueAccessTokenFunc     func(userID uint, sessionID string) (string, error)
	IssueRefreshTokenFunc    func(userID uint, sessionID string) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.CredentialClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.CredentialClaims, error)
}

// NewMockCredentialIssuer creates a new MockCredentialIssuer with default behaviors
func NewMockCredentialIssuer() *MockCredentialIssuer {
	return &MockCredentialIssuer{}
}

// IssueAccessToken issues an access token
func (m *MockCredentialIssuer) IssueAccessToken(userID uint, sessionID string) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(userID, sessionID)
	}
	return fmt.Sprintf("access-%d-%s", userID, sessionID), nil
}

// IssueRefreshToken issues a refresh token
func (m *MockCredentialIssuer) IssueRefreshToken(userID uint, sessionID string) (string, error) {
	if m.IssueRefreshTokenFunc != nil {
		return m.IssueRefreshTokenFunc(userID, sessionID)
	}
	return fmt.Sprintf("refresh-%d-%s", userID, sessionID), nil
}

// ValidateAccessToken validates an access token
func (m *MockCredentialIssuer) ValidateAccessToken(token string) (*domain.CredentialClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrCredentialInvalid
}

// ValidateRefreshToken validates a refresh token
func (m *MockCredentialIssuer) ValidateRefreshToken(token string) (*domain.CredentialClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return nil, domain.ErrCredentialInvalid
}

// Compile-time interface compliance verification
var _ domain.CredentialIssuer = (*MockCredentialIssuer)(nil)
