package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/passwordless/domain"
)

// JWTServiceImpl implements domain.CredentialIssuer. It mints the session
// credentials handed out after a successful callback token exchange.
type JWTServiceImpl struct {
	secretKey       []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewJWTService creates a new JWT credential issuer
func NewJWTService(secretKey string, issuer string, accessTTL, refreshTTL time.Duration) domain.CredentialIssuer {
	return &JWTServiceImpl{
		secretKey:       []byte(secretKey),
		issuer:          issuer,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (j *JWTServiceImpl) issue(userID uint, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"session_id": sessionID,
		"iss":        j.issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// IssueAccessToken implements domain.CredentialIssuer
func (j *JWTServiceImpl) IssueAccessToken(userID uint, sessionID string) (string, error) {
	return j.issue(userID, sessionID, j.accessTokenTTL)
}

// IssueRefreshToken implements domain.CredentialIssuer
func (j *JWTServiceImpl) IssueRefreshToken(userID uint, sessionID string) (string, error) {
	return j.issue(userID, sessionID, j.refreshTokenTTL)
}

// ValidateAccessToken implements domain.CredentialIssuer
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.CredentialClaims, error) {
	return j.validateToken(tokenString)
}

// ValidateRefreshToken implements domain.CredentialIssuer
func (j *JWTServiceImpl) ValidateRefreshToken(tokenString string) (*domain.CredentialClaims, error) {
	return j.validateToken(tokenString)
}

// validateToken validates a JWT token and returns claims
func (j *JWTServiceImpl) validateToken(tokenString string) (*domain.CredentialClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrCredentialMalformed
		}
		return j.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, domain.ErrCredentialInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrCredentialMalformed
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrCredentialMalformed
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrCredentialMalformed
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrCredentialMalformed
	}

	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrCredentialExpired
	}

	credentialClaims := &domain.CredentialClaims{
		UserID:    uint(userID),
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}

	if sessionID, ok := claims["session_id"].(string); ok {
		credentialClaims.SessionID = sessionID
	}

	return credentialClaims, nil
}
