package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/you/passwordless/domain"
	"github.com/you/passwordless/internal/mocks"
)

func newProtectedRouter(credentials domain.CredentialIssuer, sessions domain.SessionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", NewAuthMW(credentials, sessions).WithJWT(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	creds := mocks.NewMockCredentialIssuer()
	creds.ValidateAccessTokenFunc = func(token string) (*domain.CredentialClaims, error) {
		assert.Equal(t, "good-token", token)
		return &domain.CredentialClaims{UserID: 42, SessionID: "sess_42_1"}, nil
	}

	sessions := mocks.NewMockSessionRepository()
	sessions.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	w := get(newProtectedRouter(creds, sessions), "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	w := get(newProtectedRouter(mocks.NewMockCredentialIssuer(), mocks.NewMockSessionRepository()), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	w := get(newProtectedRouter(mocks.NewMockCredentialIssuer(), mocks.NewMockSessionRepository()), "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	creds := mocks.NewMockCredentialIssuer()
	creds.ValidateAccessTokenFunc = func(token string) (*domain.CredentialClaims, error) {
		return nil, domain.ErrCredentialInvalid
	}

	w := get(newProtectedRouter(creds, mocks.NewMockSessionRepository()), "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_SessionGone(t *testing.T) {
	creds := mocks.NewMockCredentialIssuer()
	creds.ValidateAccessTokenFunc = func(token string) (*domain.CredentialClaims, error) {
		return &domain.CredentialClaims{UserID: 42, SessionID: "sess_42_1"}, nil
	}

	sessions := mocks.NewMockSessionRepository()
	sessions.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return nil, domain.ErrSessionNotFound
	}

	// Logout kills the session, so a still-valid JWT no longer passes
	w := get(newProtectedRouter(creds, sessions), "Bearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_SessionUserMismatch(t *testing.T) {
	creds := mocks.NewMockCredentialIssuer()
	creds.ValidateAccessTokenFunc = func(token string) (*domain.CredentialClaims, error) {
		return &domain.CredentialClaims{UserID: 42, SessionID: "sess_42_1"}, nil
	}

	sessions := mocks.NewMockSessionRepository()
	sessions.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 99, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	w := get(newProtectedRouter(creds, sessions), "Bearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
