package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edupulse/school-service/internal/cache"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

type branchRepository struct {
	db *gorm.DB
}

func NewBranchPostgreSQL(db *gorm.DB) repositories.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return &branch, nil
}

type settingRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewSettingPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SettingRepository {
	return &settingRepository{db: db, cache: cacheManager}
}

// ActiveSessionID reads the singleton settings row, defaulting to session 1
// when no row exists or the session is unset. Cached briefly since every
// dashboard request resolves it.
func (r *settingRepository) ActiveSessionID(ctx context.Context) (uint, error) {
	var sessionID uint
	err := r.cache.Settings.CacheOrExecute(ctx, "active_session", &sessionID, cache.SettingsCacheConfig.TTL, func() (interface{}, error) {
		var setting models.GlobalSetting
		if err := r.db.WithContext(ctx).First(&setting).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uint(1), nil
			}
			return nil, fmt.Errorf("failed to get global settings: %w", err)
		}
		if setting.SessionID == 0 {
			return uint(1), nil
		}
		return setting.SessionID, nil
	})
	if err != nil {
		return 0, err
	}
	return sessionID, nil
}
