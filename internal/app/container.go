package app

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/passwordless/domain"
	"github.com/you/passwordless/internal/config"
	"github.com/you/passwordless/internal/infrastructure/auth"
	"github.com/you/passwordless/internal/infrastructure/database"
	"github.com/you/passwordless/internal/infrastructure/notifications"
	"github.com/you/passwordless/internal/infrastructure/repositories"
	"github.com/you/passwordless/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo    domain.UserRepository
	TokenRepo   domain.TokenRepository
	SessionRepo domain.SessionRepository

	Credentials domain.CredentialIssuer
	Notifier    domain.NotificationService
	Audit       domain.AuditLogger
	Lifecycle   domain.TokenLifecycle
	TokenSvc    domain.TokenService
	AuthSvc     domain.AuthService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return nil, err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	userRepo := repositories.NewUserRepository(gdb)
	tokenRepo := repositories.NewTokenRepository(gdb)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.RefreshTTL)

	audit := services.NewAuditLogger()
	credentials := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	notifier := notifications.NewNotifier(
		notifications.NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom),
		notifications.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword),
	)

	lifecycle := services.NewTokenLifecycle(tokenRepo, userRepo, audit, services.LifecycleConfig{
		TokenLength:        cfg.TokenLength,
		TTL:                cfg.TokenTTL,
		GenerationAttempts: cfg.TokenGenerationAttempts,
		DemoUsers:          cfg.DemoUsers,
		MarkEmailVerified:  cfg.MarkEmailVerified,
		MarkMobileVerified: cfg.MarkMobileVerified,
	})

	tokenSvc := services.NewTokenService(lifecycle, notifier, rdb, audit, services.TokenServiceConfig{
		ResendWindow:              cfg.ResendWindow,
		DemoUsers:                 cfg.DemoUsers,
		EmailSubject:              cfg.EmailSubject,
		EmailMessage:              cfg.EmailMessage,
		MobileMessage:             cfg.MobileMessage,
		VerificationEmailSubject:  cfg.VerificationEmailSubject,
		VerificationEmailMessage:  cfg.VerificationEmailMessage,
		VerificationMobileMessage: cfg.VerificationMobileMessage,
	})

	// Changed aliases lose their verified flag on save; optionally a fresh
	// verification token goes straight to the new alias.
	if cfg.AutoSendVerification {
		userRepo.SetAliasChangeHook(func(ctx context.Context, user *domain.User, aliasType domain.AliasType) {
			sent, err := tokenSvc.SendToken(ctx, user, aliasType, domain.TokenTypeVerify)
			if err != nil || !sent {
				log.Printf("failed to send verification token to updated %s for user %d: %v", aliasType, user.ID, err)
			}
		})
	}

	authSvc := services.NewAuthService(userRepo, sessionRepo, tokenSvc, lifecycle, credentials, audit, services.AuthConfig{
		RegisterNewUsers:  cfg.RegisterNewUsers,
		AllowedAliasTypes: cfg.AllowedAliasTypes,
		AccessTTL:         cfg.AccessTTL,
		SessionTTL:        cfg.RefreshTTL,
	})

	return &Container{
		Config:      cfg,
		DB:          gdb,
		RedisClient: rdb,
		UserRepo:    userRepo,
		TokenRepo:   tokenRepo,
		SessionRepo: sessionRepo,
		Credentials: credentials,
		Notifier:    notifier,
		Audit:       audit,
		Lifecycle:   lifecycle,
		TokenSvc:    tokenSvc,
		AuthSvc:     authSvc,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
