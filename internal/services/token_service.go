package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/passwordless/domain"
)

// TokenServiceConfig holds orchestration settings
type TokenServiceConfig struct {
	ResendWindow time.Duration
	DemoUsers    map[uint]string

	EmailSubject              string
	EmailMessage              string
	MobileMessage             string
	VerificationEmailSubject  string
	VerificationEmailMessage  string
	VerificationMobileMessage string
}

// TokenServiceImpl implements domain.TokenService. It ties issuance and
// delivery together: issue through the lifecycle manager, then dispatch over
// the channel matching the alias type.
type TokenServiceImpl struct {
	lifecycle   domain.TokenLifecycle
	notifier    domain.NotificationService
	redisClient *redis.Client
	audit       domain.AuditLogger
	config      TokenServiceConfig
}

// NewTokenService creates a new token orchestration service
func NewTokenService(lifecycle domain.TokenLifecycle, notifier domain.NotificationService, redisClient *redis.Client, audit domain.AuditLogger, config TokenServiceConfig) domain.TokenService {
	return &TokenServiceImpl{
		lifecycle:   lifecycle,
		notifier:    notifier,
		redisClient: redisClient,
		audit:       audit,
		config:      config,
	}
}

// SendToken implements domain.TokenService. Delivery failures come back as
// (false, nil); only throttling and fatal issuance failures are errors.
// Demo users short-circuit to success without touching the channel.
func (s *TokenServiceImpl) SendToken(ctx context.Context, user *domain.User, aliasType domain.AliasType, tokenType domain.TokenType) (bool, error) {
	if _, demo := s.config.DemoUsers[user.ID]; demo {
		if _, err := s.lifecycle.Issue(ctx, user, aliasType, tokenType); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := s.checkResendWindow(ctx, user.Alias(aliasType)); err != nil {
		return false, err
	}

	token, err := s.lifecycle.Issue(ctx, user, aliasType, tokenType)
	if err != nil {
		return false, err
	}

	if err := s.deliver(user, token); err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenDeliveryFailedEvent).
			WithToken(token).WithError(err))
		return false, nil
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenDeliveredEvent).WithToken(token))
	return true, nil
}

// checkResendWindow throttles repeat sends per alias via a Redis SetNX
// window. A zero window or missing Redis client disables throttling.
func (s *TokenServiceImpl) checkResendWindow(ctx context.Context, alias string) error {
	if s.config.ResendWindow <= 0 || s.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf("token:resend:%s", alias)
	acquired, err := s.redisClient.SetNX(ctx, key, 1, s.config.ResendWindow).Result()
	if err != nil {
		return fmt.Errorf("failed to check resend window: %w", err)
	}
	if !acquired {
		return domain.ErrResendThrottled
	}
	return nil
}

func (s *TokenServiceImpl) deliver(user *domain.User, token *domain.CallbackToken) error {
	switch token.ToAliasType {
	case domain.AliasTypeMobile:
		message := s.config.MobileMessage
		if token.Type == domain.TokenTypeVerify {
			message = s.config.VerificationMobileMessage
		}
		return s.notifier.SendSMS(token.ToAlias, fmt.Sprintf(message, token.Key))
	default:
		subject, message := s.config.EmailSubject, s.config.EmailMessage
		if token.Type == domain.TokenTypeVerify {
			subject, message = s.config.VerificationEmailSubject, s.config.VerificationEmailMessage
		}
		return s.notifier.SendEmail(token.ToAlias, subject, fmt.Sprintf(message, token.Key))
	}
}
