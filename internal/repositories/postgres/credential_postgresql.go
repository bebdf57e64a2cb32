package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialPostgreSQL(db *gorm.DB) repositories.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetByUsername(ctx context.Context, username string) (*models.LoginCredential, error) {
	var cred models.LoginCredential
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential by username: %w", err)
	}
	return &cred, nil
}

func (r *credentialRepository) GetByID(ctx context.Context, id uint) (*models.LoginCredential, error) {
	var cred models.LoginCredential
	if err := r.db.WithContext(ctx).First(&cred, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential by id: %w", err)
	}
	return &cred, nil
}

func (r *credentialRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&models.LoginCredential{}).
		Where("id = ?", id).
		Update("last_login", at).Error; err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.LoginCredential{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *credentialRepository) CreateLoginLog(ctx context.Context, log *models.LoginLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create login log: %w", err)
	}
	return nil
}

func (r *credentialRepository) CreateReset(ctx context.Context, reset *models.PasswordReset) error {
	if err := r.db.WithContext(ctx).Create(reset).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *credentialRepository) GetResetByKey(ctx context.Context, key string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &reset, nil
}

func (r *credentialRepository) DeleteResetsByCredential(ctx context.Context, credentialID uint) error {
	if err := r.db.WithContext(ctx).
		Where("login_credential_id = ?", credentialID).
		Delete(&models.PasswordReset{}).Error; err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}

func (r *credentialRepository) DeleteResetByKey(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&models.PasswordReset{}).Error; err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
