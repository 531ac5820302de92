package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/you/passwordless/domain"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type TokenConfig struct {
	Length               int             `yaml:"length"`
	TTL                  string          `yaml:"ttl"`
	GenerationAttempts   int             `yaml:"generation_attempts"`
	ResendWindow         string          `yaml:"resend_window"`
	AuthTypes            []string        `yaml:"auth_types"`
	RegisterNewUsers     bool            `yaml:"register_new_users"`
	MarkEmailVerified    bool            `yaml:"mark_email_verified"`
	MarkMobileVerified   bool            `yaml:"mark_mobile_verified"`
	AutoSendVerification bool            `yaml:"auto_send_verification"`
	DemoUsers            map[uint]string `yaml:"demo_users"`
}

type MessageConfig struct {
	EmailSubject              string `yaml:"email_subject"`
	EmailMessage              string `yaml:"email_message"`
	MobileMessage             string `yaml:"mobile_message"`
	VerificationEmailSubject  string `yaml:"verification_email_subject"`
	VerificationEmailMessage  string `yaml:"verification_email_message"`
	VerificationMobileMessage string `yaml:"verification_mobile_message"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Token    TokenConfig    `yaml:"token"`
	Messages MessageConfig  `yaml:"messages"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

type Config struct {
	Port          string
	GinMode       string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	TokenLength             int
	TokenTTL                time.Duration
	TokenGenerationAttempts int
	ResendWindow            time.Duration
	AllowedAliasTypes       []domain.AliasType
	RegisterNewUsers        bool
	MarkEmailVerified       bool
	MarkMobileVerified      bool
	AutoSendVerification    bool
	DemoUsers               map[uint]string

	EmailSubject              string
	EmailMessage              string
	MobileMessage             string
	VerificationEmailSubject  string
	VerificationEmailMessage  string
	VerificationMobileMessage string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for
// credentials that should not live in the file.
func Load() (*Config, error) {
	return LoadFile(env("CONFIG_PATH", "config/config.yml"))
}

// LoadFile reads the given yaml config file
func LoadFile(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(defaultString(configFile.JWT.AccessTTL, "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(defaultString(configFile.JWT.RefreshTTL, "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	tokenTTL, err := time.ParseDuration(defaultString(configFile.Token.TTL, "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid token TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(defaultString(configFile.Token.ResendWindow, "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid token resend window: %w", err)
	}

	aliasTypes, err := parseAliasTypes(configFile.Token.AuthTypes)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          fmt.Sprintf("%d", defaultInt(configFile.App.Port, 8080)),
		GinMode:       configFile.App.GinMode,
		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:  env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:  configFile.JWT.Issuer,
		AccessTTL:  accTTL,
		RefreshTTL: refTTL,

		TokenLength:             defaultInt(configFile.Token.Length, 6),
		TokenTTL:                tokenTTL,
		TokenGenerationAttempts: defaultInt(configFile.Token.GenerationAttempts, 3),
		ResendWindow:            resWnd,
		AllowedAliasTypes:       aliasTypes,
		RegisterNewUsers:        configFile.Token.RegisterNewUsers,
		MarkEmailVerified:       configFile.Token.MarkEmailVerified,
		MarkMobileVerified:      configFile.Token.MarkMobileVerified,
		AutoSendVerification:    configFile.Token.AutoSendVerification,
		DemoUsers:               configFile.Token.DemoUsers,

		EmailSubject:              defaultString(configFile.Messages.EmailSubject, "Your Login Token"),
		EmailMessage:              defaultString(configFile.Messages.EmailMessage, "Enter this token to sign in: %s"),
		MobileMessage:             defaultString(configFile.Messages.MobileMessage, "Use this code to log in: %s"),
		VerificationEmailSubject:  defaultString(configFile.Messages.VerificationEmailSubject, "Your Verification Token"),
		VerificationEmailMessage:  defaultString(configFile.Messages.VerificationEmailMessage, "Enter this verification code: %s"),
		VerificationMobileMessage: defaultString(configFile.Messages.VerificationMobileMessage, "Enter this verification code: %s"),

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),

		SMTPHost:     env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:     env("SMTP_PORT", configFile.SMTP.Port),
		SMTPFrom:     env("SMTP_FROM", configFile.SMTP.From),
		SMTPUsername: env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", configFile.SMTP.Password),
	}

	if cfg.TokenLength <= 0 {
		return nil, fmt.Errorf("token length must be positive, got %d", cfg.TokenLength)
	}
	if cfg.DemoUsers == nil {
		cfg.DemoUsers = map[uint]string{}
	}

	return cfg, nil
}

// AliasTypeAllowed reports whether the alias type is enabled for authentication
func (c *Config) AliasTypeAllowed(t domain.AliasType) bool {
	for _, allowed := range c.AllowedAliasTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// DemoKey returns the fixed token key for a demo user, if configured
func (c *Config) DemoKey(userID uint) (string, bool) {
	key, ok := c.DemoUsers[userID]
	return key, ok
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseAliasTypes(raw []string) ([]domain.AliasType, error) {
	if len(raw) == 0 {
		return []domain.AliasType{domain.AliasTypeEmail}, nil
	}

	types := make([]domain.AliasType, 0, len(raw))
	for _, s := range raw {
		switch domain.AliasType(s) {
		case domain.AliasTypeEmail:
			types = append(types, domain.AliasTypeEmail)
		case domain.AliasTypeMobile:
			types = append(types, domain.AliasTypeMobile)
		default:
			return nil, fmt.Errorf("unknown alias type %q in auth_types", s)
		}
	}
	return types, nil
}

func defaultString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func defaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
