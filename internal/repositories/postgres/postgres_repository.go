package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/edupulse/school-service/internal/cache"
	"github.com/edupulse/school-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	credential repositories.CredentialRepository
	profile    repositories.ProfileRepository
	branch     repositories.BranchRepository
	setting    repositories.SettingRepository
	dashboard  repositories.DashboardRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a repository manager with all sub-repositories.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:          config.DB,
		redisClient: config.RedisClient,
	}

	repo.credential = NewCredentialPostgreSQL(config.DB)
	repo.profile = NewProfilePostgreSQL(config.DB)
	repo.branch = NewBranchPostgreSQL(config.DB)
	repo.setting = NewSettingPostgreSQL(config.DB, cacheManager)
	repo.dashboard = NewDashboardPostgreSQL(config.DB)

	return repo
}

func (r *PostgreSQLRepository) Credential() repositories.CredentialRepository {
	return r.credential
}

func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

func (r *PostgreSQLRepository) Branch() repositories.BranchRepository {
	return r.branch
}

func (r *PostgreSQLRepository) Setting() repositories.SettingRepository {
	return r.setting
}

func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository {
	return r.dashboard
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(pingCtx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// RepositoryManagerImpl manages the repository lifecycle.
type RepositoryManagerImpl struct {
	config     RepositoryConfig
	repository repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManagerImpl{config: config}
}

func (rm *RepositoryManagerImpl) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	rm.repository = NewPostgreSQLRepository(rm.config)
	return nil
}

func (rm *RepositoryManagerImpl) GetRepository() repositories.Repository {
	return rm.repository
}

func (rm *RepositoryManagerImpl) HealthCheck(ctx context.Context) error {
	if rm.repository == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repository.Ping(ctx)
}

func (rm *RepositoryManagerImpl) Shutdown(ctx context.Context) error {
	if rm.repository == nil {
		return nil
	}
	return rm.repository.Close()
}
