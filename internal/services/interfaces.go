package services

import (
	"context"
	"errors"

	"github.com/edupulse/school-service/internal/auth"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
	"github.com/edupulse/school-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use request validator types
type LoginRequest = validator.LoginRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type ResetPasswordRequest = validator.ResetPasswordRequest

// ClientInfo is coarse, best-effort metadata about the logging-in client.
// Missing fields are tolerated and stored empty.
type ClientInfo struct {
	IP        string `json:"ip"`
	Platform  string `json:"platform"`
	Browser   string `json:"browser"`
	UserAgent string `json:"user_agent"`
}

// UserInfo is the public identity view returned at login and from /auth/me.
type UserInfo struct {
	ID       uint            `json:"id"`
	UserID   uint            `json:"userId"`
	Username string          `json:"username"`
	Role     models.Role     `json:"role"`
	Name     string          `json:"name"`
	Photo    *string         `json:"photo"`
	BranchID *uint           `json:"branchId"`
	UserType models.UserType `json:"userType"`
}

type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	User        UserInfo `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ===== DASHBOARD DTOs =====

// Metric is a count that may not be computed yet. Available=false marks a
// value the system does not calculate, as opposed to a real zero.
type Metric struct {
	Value     int64 `json:"value"`
	Available bool  `json:"available"`
}

// MoneyMetric is the monetary counterpart of Metric.
type MoneyMetric struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

type MonthlyFee struct {
	Month  string      `json:"month"`
	Amount MoneyMetric `json:"amount"`
}

type IncomeExpense struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type AdminCounts struct {
	TotalStudents       int64  `json:"totalStudents"`
	TotalStaff          int64  `json:"totalStaff"`
	MonthlyAdmissions   int64  `json:"monthlyAdmissions"`
	MonthlyTransactions int64  `json:"monthlyTransactions"`
	TransportRoutes     Metric `json:"transportRoutes"`
}

type AdminCharts struct {
	FeesSummary       []MonthlyFee                      `json:"feesSummary"`
	StudentsByClass   []repositories.ClassCount         `json:"studentsByClass"`
	IncomeVsExpense   IncomeExpense                     `json:"incomeVsExpense"`
	WeeklyAttendance  []repositories.AttendanceDayCount `json:"weeklyAttendance"`
	MonthlyAdmissions int64                             `json:"monthlyAdmissions"`
}

type AdminDashboardResponse struct {
	BranchID *uint       `json:"branchId"`
	Counts   AdminCounts `json:"counts"`
	Charts   AdminCharts `json:"charts"`
}

type EnrollmentInfo struct {
	ID          uint   `json:"id"`
	ClassName   string `json:"className"`
	SectionName string `json:"sectionName"`
	BranchID    uint   `json:"branchId"`
	SessionID   uint   `json:"sessionId"`
}

type StudentFeeSummary struct {
	TotalPaid float64     `json:"totalPaid"`
	TotalFee  MoneyMetric `json:"totalFee"`
	TotalDue  MoneyMetric `json:"totalDue"`
}

type StudentAttendanceBreakdown struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
}

type StudentDashboardResponse struct {
	HasEnrollment bool                        `json:"hasEnrollment"`
	Message       string                      `json:"message,omitempty"`
	Enrollment    *EnrollmentInfo             `json:"enrollment,omitempty"`
	Attendance    *StudentAttendanceBreakdown `json:"attendance,omitempty"`
	Fees          *StudentFeeSummary          `json:"fees,omitempty"`
}

type ChildSummary struct {
	StudentID  uint            `json:"studentId"`
	Name       string          `json:"name"`
	Photo      *string         `json:"photo"`
	Enrollment *EnrollmentInfo `json:"enrollment,omitempty"`
}

type ParentDashboardResponse struct {
	Children []ChildSummary `json:"children"`
}

// ===== ERROR TAXONOMY =====

// Terminal, user-visible failures. Handlers map these onto HTTP statuses;
// anything else is reported as an internal failure.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrProfileMissing     = errors.New("no profile found for account")
	ErrLoginDisabled      = errors.New("login is disabled for this branch")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInactiveAccount    = errors.New("invalid or inactive account")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenExpired  = errors.New("reset token has expired")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
)

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResponse, error)

	// VerifyToken checks signature and expiry, then re-checks the backing
	// credential so deactivated accounts stop working before token expiry.
	VerifyToken(ctx context.Context, token string) (*auth.SessionClaims, error)

	CurrentUser(claims *auth.SessionClaims) (*UserInfo, error)
}

type PasswordResetService interface {
	RequestReset(ctx context.Context, username string) (*MessageResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error)
}

type DashboardService interface {
	GetAdminDashboard(ctx context.Context, branchID *uint) (*AdminDashboardResponse, error)
	GetStudentDashboard(ctx context.Context, studentID uint) (*StudentDashboardResponse, error)
	GetParentDashboard(ctx context.Context, parentID uint) (*ParentDashboardResponse, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	PasswordReset() PasswordResetService
	Dashboard() DashboardService

	// Health and lifecycle
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
