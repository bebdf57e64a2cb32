package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edupulse/school-service/internal/cache"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

const noEnrollmentMessage = "No active enrollment found"

const admissionWindowDays = 30

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, cacheManager *cache.CacheManager, logger *slog.Logger) DashboardService {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &dashboardService{
		repo:   repo,
		cache:  cacheManager,
		logger: logger,
	}
}

func (s *dashboardService) GetAdminDashboard(ctx context.Context, branchID *uint) (*AdminDashboardResponse, error) {
	cacheKey := "dashboard:all"
	if branchID != nil {
		cacheKey = fmt.Sprintf("dashboard:branch:%d", *branchID)
	}

	var response AdminDashboardResponse
	err := s.cache.Stats.CacheOrExecute(ctx, cacheKey, &response, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.buildAdminDashboard(ctx, branchID)
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *dashboardService) buildAdminDashboard(ctx context.Context, branchID *uint) (*AdminDashboardResponse, error) {
	sessionID, err := s.repo.Setting().ActiveSessionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active session: %w", err)
	}

	now := time.Now()
	windowStart := now.AddDate(0, 0, -admissionWindowDays)

	totalStudents, err := s.repo.Dashboard().CountEnrollments(ctx, branchID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	totalStaff, err := s.repo.Dashboard().CountStaff(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}

	admissions, err := s.repo.Dashboard().CountAdmissions(ctx, branchID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count admissions: %w", err)
	}

	transactions, err := s.repo.Dashboard().CountTransactions(ctx, branchID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	studentsByClass, err := s.repo.Dashboard().StudentsByClass(ctx, branchID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to group students by class: %w", err)
	}

	// Income vs expense covers the current calendar month, start through now.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	money, err := s.repo.Dashboard().SumTransactions(ctx, branchID, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	weekly, err := s.repo.Dashboard().AttendanceWeek(ctx, branchID, trailingWeek(now))
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance week: %w", err)
	}

	return &AdminDashboardResponse{
		BranchID: branchID,
		Counts: AdminCounts{
			TotalStudents:       totalStudents,
			TotalStaff:          totalStaff,
			MonthlyAdmissions:   admissions,
			MonthlyTransactions: transactions,
			// No transport module exists yet; a real zero would be
			// indistinguishable from "not computed".
			TransportRoutes: Metric{Value: 0, Available: false},
		},
		Charts: AdminCharts{
			FeesSummary:     placeholderFeesSummary(now.Year()),
			StudentsByClass: studentsByClass,
			IncomeVsExpense: IncomeExpense{
				Income:  money.Credit,
				Expense: money.Debit,
			},
			WeeklyAttendance:  weekly,
			MonthlyAdmissions: admissions,
		},
	}, nil
}

// trailingWeek returns the last 7 calendar days oldest to newest, ending at
// today.
func trailingWeek(now time.Time) []time.Time {
	days := make([]time.Time, 0, 7)
	for i := 6; i >= 0; i-- {
		days = append(days, now.AddDate(0, 0, -i))
	}
	return days
}

// placeholderFeesSummary emits the 12-month fee series with every amount
// marked unavailable. The fee-ledger rollup is not computed yet; emitting
// plain zeros here would look like real data.
func placeholderFeesSummary(year int) []MonthlyFee {
	months := make([]MonthlyFee, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, MonthlyFee{
			Month:  time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Format("Jan"),
			Amount: MoneyMetric{Value: 0, Available: false},
		})
	}
	return months
}

func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID uint) (*StudentDashboardResponse, error) {
	sessionID, err := s.repo.Setting().ActiveSessionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active session: %w", err)
	}

	enroll, err := s.repo.Dashboard().CurrentEnrollment(ctx, studentID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Not an error: the student simply has no enrollment this term.
			return &StudentDashboardResponse{
				HasEnrollment: false,
				Message:       noEnrollmentMessage,
			}, nil
		}
		return nil, fmt.Errorf("failed to load current enrollment: %w", err)
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	attendance, err := s.repo.Dashboard().StudentAttendanceSummary(ctx, enroll.ID, yearStart)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	totalPaid, err := s.totalPaid(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}

	return &StudentDashboardResponse{
		HasEnrollment: true,
		Enrollment:    enrollmentInfo(enroll),
		Attendance: &StudentAttendanceBreakdown{
			Present: attendance.Present,
			Absent:  attendance.Absent,
			Late:    attendance.Late,
		},
		Fees: &StudentFeeSummary{
			TotalPaid: totalPaid,
			// The full fee calculation is not implemented; only payments
			// received are summed.
			TotalFee: MoneyMetric{Value: 0, Available: false},
			TotalDue: MoneyMetric{Value: 0, Available: false},
		},
	}, nil
}

func (s *dashboardService) totalPaid(ctx context.Context, studentID, sessionID uint) (float64, error) {
	allocation, err := s.repo.Dashboard().FeeAllocationWithPayments(ctx, studentID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load fee allocation: %w", err)
	}

	var total float64
	for _, payment := range allocation.Payments {
		total += payment.Amount
	}
	return total, nil
}

func (s *dashboardService) GetParentDashboard(ctx context.Context, parentID uint) (*ParentDashboardResponse, error) {
	sessionID, err := s.repo.Setting().ActiveSessionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active session: %w", err)
	}

	children, err := s.repo.Dashboard().ChildrenWithEnrollments(ctx, parentID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load children: %w", err)
	}

	summaries := make([]ChildSummary, 0, len(children))
	for i := range children {
		child := &children[i]
		summary := ChildSummary{
			StudentID: child.ID,
			Name:      child.FullName(),
			Photo:     child.Photo,
		}
		if len(child.Enrolls) > 0 {
			summary.Enrollment = enrollmentInfo(&child.Enrolls[0])
		}
		summaries = append(summaries, summary)
	}

	return &ParentDashboardResponse{Children: summaries}, nil
}

func enrollmentInfo(enroll *models.Enroll) *EnrollmentInfo {
	return &EnrollmentInfo{
		ID:          enroll.ID,
		ClassName:   enroll.Class.Name,
		SectionName: enroll.Section.Name,
		BranchID:    enroll.BranchID,
		SessionID:   enroll.SessionID,
	}
}
