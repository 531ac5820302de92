package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/passwordless/domain"
	"github.com/you/passwordless/internal/infrastructure/repositories"
	"github.com/you/passwordless/internal/mocks"
)

// newTestDB opens a per-test in-memory sqlite database with the same
// migrations and error translation the postgres setup uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBCallbackToken{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type lifecycleFixture struct {
	db        *gorm.DB
	lifecycle domain.TokenLifecycle
	tokens    domain.TokenRepository
	users     *repositories.UserRepositoryImpl
	audit     *mocks.MockAuditLogger
}

func defaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		TokenLength:        6,
		TTL:                15 * time.Minute,
		GenerationAttempts: 3,
		DemoUsers:          map[uint]string{},
		MarkEmailVerified:  true,
		MarkMobileVerified: true,
	}
}

func newLifecycleFixture(t *testing.T, config LifecycleConfig) *lifecycleFixture {
	t.Helper()

	db := newTestDB(t)
	tokens := repositories.NewTokenRepository(db)
	users := repositories.NewUserRepository(db)
	audit := mocks.NewMockAuditLogger()

	return &lifecycleFixture{
		db:        db,
		lifecycle: NewTokenLifecycle(tokens, users, audit, config),
		tokens:    tokens,
		users:     users,
		audit:     audit,
	}
}

func (f *lifecycleFixture) createUser(t *testing.T, email, mobile string) *domain.User {
	t.Helper()

	user := &domain.User{Email: email, Mobile: mobile, IsActive: true}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// backdateToken rewrites a token's creation timestamp, simulating a token
// that has been sitting unredeemed past its window.
func (f *lifecycleFixture) backdateToken(t *testing.T, tokenID string, age time.Duration) {
	t.Helper()

	err := f.db.Model(&repositories.DBCallbackToken{}).
		Where("id = ?", tokenID).
		Update("created_at", time.Now().Add(-age)).Error
	if err != nil {
		t.Fatalf("failed to backdate token: %v", err)
	}
}

func (f *lifecycleFixture) tokenActive(t *testing.T, tokenID string) bool {
	t.Helper()

	var dbToken repositories.DBCallbackToken
	if err := f.db.Where("id = ?", tokenID).First(&dbToken).Error; err != nil {
		t.Fatalf("failed to load token %s: %v", tokenID, err)
	}
	return dbToken.IsActive
}
