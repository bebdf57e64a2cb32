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

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

// scopeBranch applies the optional branch filter. Absent means all branches.
func scopeBranch(query *gorm.DB, branchID *uint) *gorm.DB {
	if branchID != nil {
		return query.Where("branch_id = ?", *branchID)
	}
	return query
}

// ===== ADMIN COUNTS =====

func (r *dashboardRepository) CountEnrollments(ctx context.Context, branchID *uint, sessionID uint) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Enroll{}).
		Where("session_id = ?", sessionID)

	if err := scopeBranch(query, branchID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) CountStaff(ctx context.Context, branchID *uint) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Staff{})

	if err := scopeBranch(query, branchID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) CountAdmissions(ctx context.Context, branchID *uint, since time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("admission_date >= ?", since)

	if err := scopeBranch(query, branchID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count admissions: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) CountTransactions(ctx context.Context, branchID *uint, since time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("date >= ?", since)

	if err := scopeBranch(query, branchID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// ===== ADMIN CHARTS =====

func (r *dashboardRepository) StudentsByClass(ctx context.Context, branchID *uint, sessionID uint) ([]repositories.ClassCount, error) {
	var results []repositories.ClassCount

	query := r.db.WithContext(ctx).
		Table("enrolls").
		Select("COALESCE(classes.name, 'Unknown') as name, COUNT(enrolls.student_id) as value").
		Joins("LEFT JOIN classes ON enrolls.class_id = classes.id").
		Where("enrolls.session_id = ?", sessionID)

	if branchID != nil {
		query = query.Where("enrolls.branch_id = ?", *branchID)
	}

	if err := query.
		Group("classes.name").
		Order("value DESC").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get students by class: %w", err)
	}

	return results, nil
}

func (r *dashboardRepository) SumTransactions(ctx context.Context, branchID *uint, from, to time.Time) (*repositories.MoneySummary, error) {
	var result struct {
		Debit  float64
		Credit float64
	}

	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(dr), 0) as debit, COALESCE(SUM(cr), 0) as credit").
		Where("date >= ? AND date < ?", from, to)

	if err := scopeBranch(query, branchID).Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return &repositories.MoneySummary{Debit: result.Debit, Credit: result.Credit}, nil
}

// AttendanceWeek counts attended (present or late) students and staff for
// each given day. One entry per day, in the order the days are given.
func (r *dashboardRepository) AttendanceWeek(ctx context.Context, branchID *uint, days []time.Time) ([]repositories.AttendanceDayCount, error) {
	attended := []string{models.AttendancePresent, models.AttendanceLate}
	results := make([]repositories.AttendanceDayCount, 0, len(days))

	for _, day := range days {
		startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var students int64
		query := r.db.WithContext(ctx).
			Model(&models.StudentAttendance{}).
			Where("date >= ? AND date < ?", startOfDay, endOfDay).
			Where("status IN ?", attended)
		if err := scopeBranch(query, branchID).Count(&students).Error; err != nil {
			return nil, fmt.Errorf("failed to count student attendance: %w", err)
		}

		var staff int64
		query = r.db.WithContext(ctx).
			Model(&models.StaffAttendance{}).
			Where("date >= ? AND date < ?", startOfDay, endOfDay).
			Where("status IN ?", attended)
		if err := scopeBranch(query, branchID).Count(&staff).Error; err != nil {
			return nil, fmt.Errorf("failed to count staff attendance: %w", err)
		}

		results = append(results, repositories.AttendanceDayCount{
			Day:      day.Format("Jan 2"),
			Students: students,
			Staff:    staff,
		})
	}

	return results, nil
}

// ===== STUDENT DASHBOARD =====

func (r *dashboardRepository) CurrentEnrollment(ctx context.Context, studentID, sessionID uint) (*models.Enroll, error) {
	var enroll models.Enroll
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Class").
		Preload("Section").
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		First(&enroll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get current enrollment: %w", err)
	}
	return &enroll, nil
}

func (r *dashboardRepository) StudentAttendanceSummary(ctx context.Context, enrollID uint, since time.Time) (*repositories.AttendanceSummary, error) {
	summary := &repositories.AttendanceSummary{}

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.AttendancePresent, &summary.Present},
		{models.AttendanceAbsent, &summary.Absent},
		{models.AttendanceLate, &summary.Late},
	}

	for _, c := range counts {
		if err := r.db.WithContext(ctx).
			Model(&models.StudentAttendance{}).
			Where("enroll_id = ? AND status = ? AND date >= ?", enrollID, c.status, since).
			Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count attendance status %s: %w", c.status, err)
		}
	}

	return summary, nil
}

func (r *dashboardRepository) FeeAllocationWithPayments(ctx context.Context, studentID, sessionID uint) (*models.FeeAllocation, error) {
	var allocation models.FeeAllocation
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fee allocation: %w", err)
	}
	return &allocation, nil
}

// ===== PARENT DASHBOARD =====

// ChildrenWithEnrollments loads every child of a parent with the child's
// enrollment for the given session. Composed as a single read so all
// children reflect the same session id.
func (r *dashboardRepository) ChildrenWithEnrollments(ctx context.Context, parentID, sessionID uint) ([]models.Student, error) {
	var children []models.Student
	if err := r.db.WithContext(ctx).
		Preload("Enrolls", "session_id = ?", sessionID).
		Preload("Enrolls.Class").
		Preload("Enrolls.Section").
		Where("parent_id = ?", parentID).
		Find(&children).Error; err != nil {
		return nil, fmt.Errorf("failed to get children: %w", err)
	}
	return children, nil
}
