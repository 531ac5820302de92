package domain

import "context"

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByAlias(ctx context.Context, aliasType AliasType, alias string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	// Update persists the user. Implementations compare the incoming aliases
	// against the stored row: a changed non-empty alias resets the matching
	// verified flag and fires the registered alias-change hook.
	Update(ctx context.Context, user *User) error
	SetAliasVerified(ctx context.Context, userID uint, aliasType AliasType) error
}

// AliasChangeHook is invoked after a user is saved with a changed alias value.
type AliasChangeHook func(ctx context.Context, user *User, aliasType AliasType)

// TokenRepository defines callback token data access operations.
// All reads are scoped to active tokens; inactive rows stay behind for audit
// until explicitly deleted.
type TokenRepository interface {
	// Create inserts the token. An active token holding the same key makes it
	// fail with ErrTokenKeyExists, which callers treat as a regenerate signal.
	Create(ctx context.Context, token *CallbackToken) error
	FindActiveByKey(ctx context.Context, key string, tokenType TokenType) (*CallbackToken, error)
	FindActiveForUser(ctx context.Context, userID uint, tokenType TokenType) ([]*CallbackToken, error)
	// Deactivate conditionally flips is_active and reports whether this call
	// performed the flip. A false result means another caller got there first.
	Deactivate(ctx context.Context, token *CallbackToken) (bool, error)
	// DeactivateOthers invalidates every other active token of the same
	// (user, type) pair, superseding them with the given token.
	DeactivateOthers(ctx context.Context, token *CallbackToken) error
	Delete(ctx context.Context, token *CallbackToken) error
	// InTx runs fn against a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(repo TokenRepository) error) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// TokenLifecycle drives the callback token state machine: issuance with
// supersession, lazy expiry, one-shot consumption and alias verification.
type TokenLifecycle interface {
	Issue(ctx context.Context, user *User, aliasType AliasType, tokenType TokenType) (*CallbackToken, error)
	ValidateAge(ctx context.Context, token *CallbackToken) (bool, error)
	Authenticate(ctx context.Context, key string) (*User, error)
	ConsumeVerifyToken(ctx context.Context, userID uint, key string) error
	VerifyAlias(ctx context.Context, user *User, token *CallbackToken) (bool, error)
}

// TokenService orchestrates token issuance and delivery
type TokenService interface {
	// SendToken issues a token and dispatches it over the channel matching
	// aliasType. The boolean is the delivery outcome; only fatal issuance
	// failures come back as errors.
	SendToken(ctx context.Context, user *User, aliasType AliasType, tokenType TokenType) (bool, error)
}

// AuthService defines the passwordless authentication flows
type AuthService interface {
	RequestToken(ctx context.Context, aliasType AliasType, alias string) error
	ExchangeToken(ctx context.Context, key string) (*AuthResult, error)
	RequestAliasVerification(ctx context.Context, userID uint, aliasType AliasType) error
	ConfirmAliasVerification(ctx context.Context, userID uint, key string) error
	RefreshCredentials(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// CredentialIssuer mints and validates the session credentials handed out
// after a successful token exchange
type CredentialIssuer interface {
	IssueAccessToken(userID uint, sessionID string) (string, error)
	IssueRefreshToken(userID uint, sessionID string) (string, error)
	ValidateAccessToken(token string) (*CredentialClaims, error)
	ValidateRefreshToken(token string) (*CredentialClaims, error)
}

// NotificationService defines delivery channel operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// CredentialClaims represents JWT credential claims
type CredentialClaims struct {
	UserID    uint   `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
