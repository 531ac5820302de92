package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/passwordless/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db   *gorm.DB
	hook domain.AliasChangeHook
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID             uint           `gorm:"primaryKey"`
	Email          string         `gorm:"index;size:254"`
	EmailVerified  bool           `gorm:"index"`
	Mobile         string         `gorm:"index;size:32"`
	MobileVerified bool           `gorm:"index"`
	IsActive       bool           `gorm:"index"`
	CreatedAt      time.Time      `gorm:"index"`
	UpdatedAt      time.Time      `gorm:"index"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// SetAliasChangeHook registers the hook fired after a save that changed an
// alias value. Replaces the framework save-signal of classic implementations
// with an explicit call.
func (r *UserRepositoryImpl) SetAliasChangeHook(hook domain.AliasChangeHook) {
	r.hook = hook
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByAlias implements domain.UserRepository
func (r *UserRepositoryImpl) FindByAlias(ctx context.Context, aliasType domain.AliasType, alias string) (*domain.User, error) {
	column := "email"
	if aliasType == domain.AliasTypeMobile {
		column = "mobile"
	}

	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(column+" = ?", alias).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository. Before saving it compares the
// incoming aliases against the stored row: a changed non-empty alias resets
// the matching verified flag, and the registered alias-change hook fires
// once per changed alias after the save.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	old, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}

	var changed []domain.AliasType
	for _, aliasType := range []domain.AliasType{domain.AliasTypeEmail, domain.AliasTypeMobile} {
		incoming := user.Alias(aliasType)
		if incoming != "" && incoming != old.Alias(aliasType) {
			user.SetAliasVerified(aliasType, false)
			changed = append(changed, aliasType)
		}
	}

	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Save(dbUser).Error; err != nil {
		return err
	}
	user.UpdatedAt = dbUser.UpdatedAt

	if r.hook != nil {
		for _, aliasType := range changed {
			r.hook(ctx, user, aliasType)
		}
	}
	return nil
}

// SetAliasVerified implements domain.UserRepository. It writes only the
// verified flag, bypassing the alias-change comparison in Update.
func (r *UserRepositoryImpl) SetAliasVerified(ctx context.Context, userID uint, aliasType domain.AliasType) error {
	column := "email_verified"
	if aliasType == domain.AliasTypeMobile {
		column = "mobile_verified"
	}
	return r.db.WithContext(ctx).
		Model(&DBUser{}).
		Where("id = ?", userID).
		Update(column, true).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:             user.ID,
		Email:          user.Email,
		EmailVerified:  user.EmailVerified,
		Mobile:         user.Mobile,
		MobileVerified: user.MobileVerified,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:             dbUser.ID,
		Email:          dbUser.Email,
		EmailVerified:  dbUser.EmailVerified,
		Mobile:         dbUser.Mobile,
		MobileVerified: dbUser.MobileVerified,
		IsActive:       dbUser.IsActive,
		CreatedAt:      dbUser.CreatedAt,
		UpdatedAt:      dbUser.UpdatedAt,
	}
}
