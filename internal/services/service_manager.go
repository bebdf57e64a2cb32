package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/edupulse/school-service/internal/auth"
	"github.com/edupulse/school-service/internal/cache"
	"github.com/edupulse/school-service/internal/events"
	"github.com/edupulse/school-service/internal/repositories"
)

// ServiceManagerConfig carries the cross-service dependencies the manager
// wires into each service.
type ServiceManagerConfig struct {
	Repository  repositories.Repository
	Tokens      *auth.TokenManager
	Publisher   events.EventPublisher
	Cache       *cache.CacheManager
	FrontendURL string
	Logger      *slog.Logger
}

type serviceManager struct {
	config ServiceManagerConfig

	authService          AuthService
	passwordResetService PasswordResetService
	dashboardService     DashboardService

	mu       sync.RWMutex
	shutdown bool
}

func NewServiceManager(config ServiceManagerConfig) (ServiceManager, error) {
	if config.Repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if config.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if config.Publisher == nil {
		return nil, fmt.Errorf("event publisher is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &serviceManager{
		config:               config,
		authService:          NewAuthService(config.Repository, config.Tokens, config.Publisher, config.Logger),
		passwordResetService: NewPasswordResetService(config.Repository, config.Publisher, config.FrontendURL, config.Logger),
		dashboardService:     NewDashboardService(config.Repository, config.Cache, config.Logger),
	}, nil
}

func (m *serviceManager) Auth() AuthService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authService
}

func (m *serviceManager) PasswordReset() PasswordResetService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.passwordResetService
}

func (m *serviceManager) Dashboard() DashboardService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dashboardService
}

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	if err := m.config.Repository.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if err := m.config.Publisher.Close(); err != nil {
		m.config.Logger.Warn("Failed to close event publisher", "error", err)
	}
	if err := m.config.Repository.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	return nil
}
