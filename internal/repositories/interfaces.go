package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/edupulse/school-service/internal/models"
)

// ErrNotFound is returned by point lookups when no row matches. Callers map
// it to their own error taxonomy; it never reaches a client unwrapped.
var ErrNotFound = errors.New("record not found")

type CredentialRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.LoginCredential, error)
	GetByID(ctx context.Context, id uint) (*models.LoginCredential, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error

	CreateLoginLog(ctx context.Context, log *models.LoginLog) error

	CreateReset(ctx context.Context, reset *models.PasswordReset) error
	GetResetByKey(ctx context.Context, key string) (*models.PasswordReset, error)
	DeleteResetsByCredential(ctx context.Context, credentialID uint) error
	DeleteResetByKey(ctx context.Context, key string) error
}

type ProfileRepository interface {
	// ResolveByRole fetches the role-specific record and projects it to the
	// canonical profile shape. Superadmin resolves without touching storage.
	ResolveByRole(ctx context.Context, role models.Role, userID uint) (*models.Profile, error)
}

type BranchRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Branch, error)
}

type SettingRepository interface {
	// ActiveSessionID reads the singleton settings row. Defaults to session 1
	// when the row is absent or unset.
	ActiveSessionID(ctx context.Context) (uint, error)
}

// ===== DASHBOARD AGGREGATE DATA =====

type ClassCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type MoneySummary struct {
	Debit  float64 `json:"debit"`
	Credit float64 `json:"credit"`
}

type AttendanceDayCount struct {
	Day      string `json:"day"`
	Students int64  `json:"students"`
	Staff    int64  `json:"staff"`
}

type AttendanceSummary struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
}

type DashboardRepository interface {
	CountEnrollments(ctx context.Context, branchID *uint, sessionID uint) (int64, error)
	CountStaff(ctx context.Context, branchID *uint) (int64, error)
	CountAdmissions(ctx context.Context, branchID *uint, since time.Time) (int64, error)
	CountTransactions(ctx context.Context, branchID *uint, since time.Time) (int64, error)

	StudentsByClass(ctx context.Context, branchID *uint, sessionID uint) ([]ClassCount, error)
	SumTransactions(ctx context.Context, branchID *uint, from, to time.Time) (*MoneySummary, error)
	AttendanceWeek(ctx context.Context, branchID *uint, days []time.Time) ([]AttendanceDayCount, error)

	CurrentEnrollment(ctx context.Context, studentID, sessionID uint) (*models.Enroll, error)
	StudentAttendanceSummary(ctx context.Context, enrollID uint, since time.Time) (*AttendanceSummary, error)
	FeeAllocationWithPayments(ctx context.Context, studentID, sessionID uint) (*models.FeeAllocation, error)

	ChildrenWithEnrollments(ctx context.Context, parentID, sessionID uint) ([]models.Student, error)
}
