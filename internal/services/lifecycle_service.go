package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you/passwordless/domain"
)

// LifecycleConfig holds token lifecycle settings
type LifecycleConfig struct {
	TokenLength        int
	TTL                time.Duration
	GenerationAttempts int
	// DemoUsers maps user IDs to fixed token keys. Demo tokens are created
	// once, never superseded, never expire and survive authentication.
	DemoUsers          map[uint]string
	MarkEmailVerified  bool
	MarkMobileVerified bool
}

// TokenLifecycleImpl implements domain.TokenLifecycle
type TokenLifecycleImpl struct {
	tokens domain.TokenRepository
	users  domain.UserRepository
	audit  domain.AuditLogger
	config LifecycleConfig
}

// NewTokenLifecycle creates a new token lifecycle manager
func NewTokenLifecycle(tokens domain.TokenRepository, users domain.UserRepository, audit domain.AuditLogger, config LifecycleConfig) domain.TokenLifecycle {
	return &TokenLifecycleImpl{
		tokens: tokens,
		users:  users,
		audit:  audit,
		config: config,
	}
}

// Issue implements domain.TokenLifecycle. The alias value is snapshotted from
// the user at call time. Creation and supersession of older active tokens of
// the same type run in one transaction, and a storage-level key collision is
// the retry signal rather than a pre-check query.
func (s *TokenLifecycleImpl) Issue(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (*domain.CallbackToken, error) {
	alias := user.Alias(aliasType)
	if alias == "" {
		return nil, fmt.Errorf("user %d has no %s alias", user.ID, aliasType)
	}

	if demoKey, ok := s.config.DemoUsers[user.ID]; ok {
		return s.issueDemo(ctx, user, aliasType, alias, tokenType, demoKey)
	}

	for attempt := 0; attempt < s.config.GenerationAttempts; attempt++ {
		key, err := GenerateTokenKey(s.config.TokenLength)
		if err != nil {
			return nil, err
		}
		if len(key) != s.config.TokenLength {
			return nil, domain.ErrInvalidTokenLength
		}

		token := s.newToken(user.ID, key, tokenType, aliasType, alias)
		err = s.tokens.InTx(ctx, func(repo domain.TokenRepository) error {
			if err := repo.Create(ctx, token); err != nil {
				return err
			}
			return repo.DeactivateOthers(ctx, token)
		})
		if errors.Is(err, domain.ErrTokenKeyExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenIssuedEvent).WithToken(token))
		return token, nil
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRejectedEvent).
		WithUser(user.ID).WithError(domain.ErrTokenGenerationExhausted))
	return nil, domain.ErrTokenGenerationExhausted
}

// issueDemo reuses the user's fixed token if it is still active and creates
// it otherwise. Demo tokens never supersede anything.
func (s *TokenLifecycleImpl) issueDemo(ctx context.Context, user *domain.User, aliasType domain.AliasType, alias string, tokenType domain.TokenType, demoKey string) (*domain.CallbackToken, error) {
	if len(demoKey) != s.config.TokenLength {
		return nil, domain.ErrInvalidTokenLength
	}

	existing, err := s.tokens.FindActiveByKey(ctx, demoKey, tokenType)
	if err == nil && existing.UserID == user.ID {
		return existing, nil
	}
	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return nil, err
	}

	token := s.newToken(user.ID, demoKey, tokenType, aliasType, alias)
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenIssuedEvent).WithToken(token))
	return token, nil
}

// ValidateAge implements domain.TokenLifecycle. Expiry is lazy: the active
// flag is only flipped here, on first access past the TTL. Demo users are
// always within the window.
func (s *TokenLifecycleImpl) ValidateAge(ctx context.Context, token *domain.CallbackToken) (bool, error) {
	if _, ok := s.config.DemoUsers[token.UserID]; ok {
		return true, nil
	}

	if time.Since(token.CreatedAt) <= s.config.TTL {
		return true, nil
	}

	if _, err := s.tokens.Deactivate(ctx, token); err != nil {
		return false, err
	}
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenExpiredEvent).WithToken(token))
	return false, nil
}

// Authenticate implements domain.TokenLifecycle. Consumption is exactly-once:
// the conditional deactivate admits only the first of concurrent redemption
// attempts. Demo tokens are exempt and stay active.
func (s *TokenLifecycleImpl) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	token, err := s.tokens.FindActiveByKey(ctx, key, domain.TokenTypeAuth)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRejectedEvent).WithError(domain.ErrTokenNotFound))
		}
		return nil, err
	}

	valid, err := s.ValidateAge(ctx, token)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, domain.ErrTokenExpired
	}

	if _, demo := s.config.DemoUsers[token.UserID]; !demo {
		consumed, err := s.tokens.Deactivate(ctx, token)
		if err != nil {
			return nil, err
		}
		if !consumed {
			s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRejectedEvent).
				WithToken(token).WithError(domain.ErrTokenConsumed))
			return nil, domain.ErrTokenConsumed
		}
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}

	if s.markVerified(token.ToAliasType) {
		if _, err := s.VerifyAlias(ctx, user, token); err != nil {
			return nil, err
		}
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenConsumedEvent).WithToken(token))
	return user, nil
}

// ConsumeVerifyToken implements domain.TokenLifecycle. The token must be an
// active VERIFY token belonging to the given user; a token owned by someone
// else is reported as not found.
func (s *TokenLifecycleImpl) ConsumeVerifyToken(ctx context.Context, userID uint, key string) error {
	token, err := s.tokens.FindActiveByKey(ctx, key, domain.TokenTypeVerify)
	if err != nil {
		return err
	}
	if token.UserID != userID {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRejectedEvent).
			WithToken(token).WithError(domain.ErrTokenNotFound))
		return domain.ErrTokenNotFound
	}

	valid, err := s.ValidateAge(ctx, token)
	if err != nil {
		return err
	}
	if !valid {
		return domain.ErrTokenExpired
	}

	if _, demo := s.config.DemoUsers[token.UserID]; !demo {
		consumed, err := s.tokens.Deactivate(ctx, token)
		if err != nil {
			return err
		}
		if !consumed {
			return domain.ErrTokenConsumed
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	verified, err := s.VerifyAlias(ctx, user, token)
	if err != nil {
		return err
	}
	if !verified {
		return domain.ErrAliasMismatch
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenConsumedEvent).WithToken(token))
	return nil
}

// VerifyAlias implements domain.TokenLifecycle. The flag is set only if the
// alias snapshotted at issuance still equals the user's current alias of that
// type; a stale token must not verify a value it was never sent to.
func (s *TokenLifecycleImpl) VerifyAlias(ctx context.Context, user *domain.User, token *domain.CallbackToken) (bool, error) {
	if token.ToAlias == "" || token.ToAlias != user.Alias(token.ToAliasType) {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRejectedEvent).
			WithToken(token).WithError(domain.ErrAliasMismatch))
		return false, nil
	}

	if err := s.users.SetAliasVerified(ctx, user.ID, token.ToAliasType); err != nil {
		return false, err
	}
	user.SetAliasVerified(token.ToAliasType, true)

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AliasVerifiedEvent).WithToken(token))
	return true, nil
}

func (s *TokenLifecycleImpl) markVerified(aliasType domain.AliasType) bool {
	if aliasType == domain.AliasTypeMobile {
		return s.config.MarkMobileVerified
	}
	return s.config.MarkEmailVerified
}

func (s *TokenLifecycleImpl) newToken(userID uint, key string, tokenType domain.TokenType, aliasType domain.AliasType, alias string) *domain.CallbackToken {
	return &domain.CallbackToken{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		UserID:      userID,
		Key:         key,
		Type:        tokenType,
		ToAliasType: aliasType,
		ToAlias:     alias,
		IsActive:    true,
	}
}
