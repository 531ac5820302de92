package domain

import "time"

// AliasType identifies which contact point a token targets
type AliasType string

const (
	AliasTypeEmail  AliasType = "EMAIL"
	AliasTypeMobile AliasType = "MOBILE"
)

// TokenType distinguishes login tokens from alias-verification tokens
type TokenType string

const (
	TokenTypeAuth   TokenType = "AUTH"
	TokenTypeVerify TokenType = "VERIFY"
)

// User represents a user in the system
type User struct {
	ID             uint
	Email          string
	EmailVerified  bool
	Mobile         string
	MobileVerified bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Alias returns the user's contact point of the given type
func (u *User) Alias(t AliasType) string {
	if t == AliasTypeMobile {
		return u.Mobile
	}
	return u.Email
}

// SetAlias sets the user's contact point of the given type
func (u *User) SetAlias(t AliasType, value string) {
	if t == AliasTypeMobile {
		u.Mobile = value
		return
	}
	u.Email = value
}

// AliasVerified reports whether the alias of the given type has been verified
func (u *User) AliasVerified(t AliasType) bool {
	if t == AliasTypeMobile {
		return u.MobileVerified
	}
	return u.EmailVerified
}

// SetAliasVerified sets the verified flag for the alias of the given type
func (u *User) SetAliasVerified(t AliasType, verified bool) {
	if t == AliasTypeMobile {
		u.MobileVerified = verified
		return
	}
	u.EmailVerified = verified
}

// CallbackToken is a short-lived one-time numeric code proving control of an
// alias. The alias value is snapshotted at issuance time; redemption compares
// it against the user's current alias before flagging verification. IsActive
// flips to false exactly once, on consumption, supersession or expiry, and is
// never flipped back.
type CallbackToken struct {
	ID          string
	CreatedAt   time.Time
	UserID      uint
	Key         string
	Type        TokenType
	ToAliasType AliasType
	ToAlias     string
	IsActive    bool
}

// AuthResult represents authentication outcome after a token exchange
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a user session
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}
