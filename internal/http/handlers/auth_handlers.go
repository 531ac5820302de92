package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/passwordless/domain"
)

// AuthHandlers handles passwordless authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// EmailAuthRequest requests a login token for an email alias
type EmailAuthRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MobileAuthRequest requests a login token for a mobile alias
type MobileAuthRequest struct {
	Mobile string `json:"mobile" binding:"required,e164"`
}

// TokenExchangeRequest exchanges a callback token for credentials
type TokenExchangeRequest struct {
	Token string `json:"token" binding:"required,numeric"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RequestEmailToken handles POST /auth/email
func (h *AuthHandlers) RequestEmailToken(c *gin.Context) {
	var req EmailAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.requestToken(c, domain.AliasTypeEmail, req.Email)
}

// RequestMobileToken handles POST /auth/mobile
func (h *AuthHandlers) RequestMobileToken(c *gin.Context) {
	var req MobileAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.requestToken(c, domain.AliasTypeMobile, req.Mobile)
}

func (h *AuthHandlers) requestToken(c *gin.Context, aliasType domain.AliasType, alias string) {
	err := h.authSvc.RequestToken(c.Request.Context(), aliasType, alias)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAliasTypeNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Alias type not enabled"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No account is associated with this alias"})
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		case errors.Is(err, domain.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new token"})
		case errors.Is(err, domain.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to send token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to send token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "A login token has been sent to your alias"},
	})
}

// ExchangeToken handles POST /auth/token. Every token rejection gets the
// same response so callers cannot probe which check failed.
func (h *AuthHandlers) ExchangeToken(c *gin.Context) {
	var req TokenExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	result, err := h.authSvc.ExchangeToken(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"user": gin.H{
				"id":     result.User.ID,
				"email":  result.User.Email,
				"mobile": result.User.Mobile,
			},
		},
	})
}

// RequestEmailVerification handles POST /auth/verify/email
func (h *AuthHandlers) RequestEmailVerification(c *gin.Context) {
	h.requestVerification(c, domain.AliasTypeEmail)
}

// RequestMobileVerification handles POST /auth/verify/mobile
func (h *AuthHandlers) RequestMobileVerification(c *gin.Context) {
	h.requestVerification(c, domain.AliasTypeMobile)
}

func (h *AuthHandlers) requestVerification(c *gin.Context, aliasType domain.AliasType) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	err := h.authSvc.RequestAliasVerification(c.Request.Context(), userID, aliasType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAliasTypeNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Alias type not enabled"})
		case errors.Is(err, domain.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new token"})
		case errors.Is(err, domain.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to send token"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to send verification token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "A verification token has been sent to your alias"},
	})
}

// ConfirmVerification handles POST /auth/verify
func (h *AuthHandlers) ConfirmVerification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req TokenExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := h.authSvc.ConfirmAliasVerification(c.Request.Context(), userID, req.Token); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Alias verified"},
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.RefreshCredentials(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCredentialInvalid), errors.Is(err, domain.ErrCredentialExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
		},
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active session"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out"}})
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":              user.ID,
			"email":           user.Email,
			"email_verified":  user.EmailVerified,
			"mobile":          user.Mobile,
			"mobile_verified": user.MobileVerified,
		},
	})
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
