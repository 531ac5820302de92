package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/passwordless/domain"
)

// TokenRepositoryImpl implements domain.TokenRepository using GORM
type TokenRepositoryImpl struct {
	db *gorm.DB
}

// DBCallbackToken represents the database model for CallbackToken.
// Key uniqueness is enforced only among active rows via a partial unique
// index, so consumed tokens never block future key reuse.
type DBCallbackToken struct {
	ID          string    `gorm:"primaryKey;size:36"`
	CreatedAt   time.Time `gorm:"index"`
	UserID      uint      `gorm:"index:idx_callback_tokens_user_type"`
	Type        string    `gorm:"index:idx_callback_tokens_user_type;size:16"`
	Key         string    `gorm:"size:32;index:udx_callback_tokens_active_key,unique,where:is_active"`
	ToAliasType string    `gorm:"size:16"`
	ToAlias     string    `gorm:"size:254"`
	IsActive    bool      `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBCallbackToken) TableName() string {
	return "callback_tokens"
}

// NewTokenRepository creates a new callback token repository
func NewTokenRepository(db *gorm.DB) domain.TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

// Create implements domain.TokenRepository
func (r *TokenRepositoryImpl) Create(ctx context.Context, token *domain.CallbackToken) error {
	dbToken := r.domainToDB(token)
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrTokenKeyExists
		}
		return err
	}
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindActiveByKey implements domain.TokenRepository
func (r *TokenRepositoryImpl) FindActiveByKey(ctx context.Context, key string, tokenType domain.TokenType) (*domain.CallbackToken, error) {
	var dbToken DBCallbackToken
	err := r.db.WithContext(ctx).
		Where("key = ? AND type = ? AND is_active = ?", key, string(tokenType), true).
		First(&dbToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbToken), nil
}

// FindActiveForUser implements domain.TokenRepository
func (r *TokenRepositoryImpl) FindActiveForUser(ctx context.Context, userID uint, tokenType domain.TokenType) ([]*domain.CallbackToken, error) {
	var dbTokens []DBCallbackToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND is_active = ?", userID, string(tokenType), true).
		Order("created_at DESC").
		Find(&dbTokens).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]*domain.CallbackToken, 0, len(dbTokens))
	for i := range dbTokens {
		tokens = append(tokens, r.dbToDomain(&dbTokens[i]))
	}
	return tokens, nil
}

// Deactivate implements domain.TokenRepository. The conditional update makes
// consumption exactly-once: of two concurrent callers only one sees a row
// flipped.
func (r *TokenRepositoryImpl) Deactivate(ctx context.Context, token *domain.CallbackToken) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&DBCallbackToken{}).
		Where("id = ? AND is_active = ?", token.ID, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	token.IsActive = false
	return true, nil
}

// DeactivateOthers implements domain.TokenRepository
func (r *TokenRepositoryImpl) DeactivateOthers(ctx context.Context, token *domain.CallbackToken) error {
	return r.db.WithContext(ctx).
		Model(&DBCallbackToken{}).
		Where("user_id = ? AND type = ? AND id <> ? AND is_active = ?",
			token.UserID, string(token.Type), token.ID, true).
		Update("is_active", false).Error
}

// Delete implements domain.TokenRepository
func (r *TokenRepositoryImpl) Delete(ctx context.Context, token *domain.CallbackToken) error {
	return r.db.WithContext(ctx).Delete(&DBCallbackToken{}, "id = ?", token.ID).Error
}

// InTx implements domain.TokenRepository
func (r *TokenRepositoryImpl) InTx(ctx context.Context, fn func(repo domain.TokenRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TokenRepositoryImpl{db: tx})
	})
}

// domainToDB converts domain token to database token
func (r *TokenRepositoryImpl) domainToDB(token *domain.CallbackToken) *DBCallbackToken {
	return &DBCallbackToken{
		ID:          token.ID,
		CreatedAt:   token.CreatedAt,
		UserID:      token.UserID,
		Type:        string(token.Type),
		Key:         token.Key,
		ToAliasType: string(token.ToAliasType),
		ToAlias:     token.ToAlias,
		IsActive:    token.IsActive,
	}
}

// dbToDomain converts database token to domain token
func (r *TokenRepositoryImpl) dbToDomain(dbToken *DBCallbackToken) *domain.CallbackToken {
	return &domain.CallbackToken{
		ID:          dbToken.ID,
		CreatedAt:   dbToken.CreatedAt,
		UserID:      dbToken.UserID,
		Type:        domain.TokenType(dbToken.Type),
		Key:         dbToken.Key,
		ToAliasType: domain.AliasType(dbToken.ToAliasType),
		ToAlias:     dbToken.ToAlias,
		IsActive:    dbToken.IsActive,
	}
}
