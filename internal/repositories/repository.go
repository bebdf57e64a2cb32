package repositories

import "context"

// Repository aggregates every sub-repository used by the services.
type Repository interface {
	// Identity domain
	Credential() CredentialRepository
	Profile() ProfileRepository

	// Tenant domain
	Branch() BranchRepository
	Setting() SettingRepository

	// Dashboard domain (read-only aggregates)
	Dashboard() DashboardRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
