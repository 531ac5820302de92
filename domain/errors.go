package domain

import "errors"

// Callback token errors
var (
	ErrTokenNotFound            = errors.New("callback token not found")
	ErrTokenExpired             = errors.New("callback token has expired")
	ErrTokenConsumed            = errors.New("callback token already consumed")
	ErrTokenKeyExists           = errors.New("an active token with this key already exists")
	ErrTokenGenerationExhausted = errors.New("could not generate a unique token key after retrying")
	ErrInvalidTokenLength       = errors.New("token key length does not match configured length")

	// ErrTokenInvalid is the only token failure surfaced to callers.
	// NotFound, Expired, Consumed and AliasMismatch all collapse into it so
	// that responses do not reveal which check failed.
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Alias errors
var (
	ErrAliasMismatch      = errors.New("token alias does not match the user's current alias")
	ErrAliasTypeNotAllowed = errors.New("alias type not enabled for authentication")
	ErrResendThrottled    = errors.New("token resend throttled")
)

// Delivery errors
var (
	ErrDeliveryFailed = errors.New("failed to deliver callback token")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user account is inactive")
)

// Credential errors
var (
	ErrCredentialInvalid   = errors.New("invalid credential token")
	ErrCredentialExpired   = errors.New("credential token has expired")
	ErrCredentialMalformed = errors.New("malformed credential token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)
