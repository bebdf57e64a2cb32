package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service tests.
type fakeRepository struct {
	credentials *fakeCredentialRepo
	profiles    *fakeProfileRepo
	branches    *fakeBranchRepo
	settings    *fakeSettingRepo
	dashboard   *fakeDashboardRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		credentials: &fakeCredentialRepo{byUsername: map[string]*models.LoginCredential{}},
		profiles:    &fakeProfileRepo{profiles: map[string]*models.Profile{}},
		branches:    &fakeBranchRepo{branches: map[uint]*models.Branch{}},
		settings:    &fakeSettingRepo{sessionID: 1},
		dashboard:   &fakeDashboardRepo{},
	}
}

func (f *fakeRepository) Credential() repositories.CredentialRepository { return f.credentials }
func (f *fakeRepository) Profile() repositories.ProfileRepository       { return f.profiles }
func (f *fakeRepository) Branch() repositories.BranchRepository         { return f.branches }
func (f *fakeRepository) Setting() repositories.SettingRepository       { return f.settings }
func (f *fakeRepository) Dashboard() repositories.DashboardRepository   { return f.dashboard }
func (f *fakeRepository) Ping(ctx context.Context) error                { return nil }
func (f *fakeRepository) Close() error                                  { return nil }

// ===== CREDENTIALS =====

type fakeCredentialRepo struct {
	byUsername map[string]*models.LoginCredential
	loginLogs  []*models.LoginLog
	resets     []*models.PasswordReset
	nextID     uint
}

func (f *fakeCredentialRepo) add(cred *models.LoginCredential) *models.LoginCredential {
	if cred.ID == 0 {
		f.nextID++
		cred.ID = f.nextID + 100
	}
	f.byUsername[cred.Username] = cred
	return cred
}

func (f *fakeCredentialRepo) GetByUsername(ctx context.Context, username string) (*models.LoginCredential, error) {
	cred, ok := f.byUsername[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *cred
	return &copied, nil
}

func (f *fakeCredentialRepo) GetByID(ctx context.Context, id uint) (*models.LoginCredential, error) {
	for _, cred := range f.byUsername {
		if cred.ID == id {
			copied := *cred
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCredentialRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	for _, cred := range f.byUsername {
		if cred.ID == id {
			cred.LastLogin = &at
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCredentialRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	for _, cred := range f.byUsername {
		if cred.ID == id {
			cred.Password = passwordHash
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCredentialRepo) CreateLoginLog(ctx context.Context, log *models.LoginLog) error {
	f.loginLogs = append(f.loginLogs, log)
	return nil
}

func (f *fakeCredentialRepo) CreateReset(ctx context.Context, reset *models.PasswordReset) error {
	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = time.Now()
	}
	f.resets = append(f.resets, reset)
	return nil
}

func (f *fakeCredentialRepo) GetResetByKey(ctx context.Context, key string) (*models.PasswordReset, error) {
	for _, reset := range f.resets {
		if reset.Key == key {
			copied := *reset
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCredentialRepo) DeleteResetsByCredential(ctx context.Context, credentialID uint) error {
	kept := f.resets[:0]
	for _, reset := range f.resets {
		if reset.LoginCredentialID != credentialID {
			kept = append(kept, reset)
		}
	}
	f.resets = kept
	return nil
}

func (f *fakeCredentialRepo) DeleteResetByKey(ctx context.Context, key string) error {
	kept := f.resets[:0]
	for _, reset := range f.resets {
		if reset.Key != key {
			kept = append(kept, reset)
		}
	}
	f.resets = kept
	return nil
}

func (f *fakeCredentialRepo) resetsFor(credentialID uint) []*models.PasswordReset {
	var out []*models.PasswordReset
	for _, reset := range f.resets {
		if reset.LoginCredentialID == credentialID {
			out = append(out, reset)
		}
	}
	return out
}

// ===== PROFILES =====

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func profileKey(role models.Role, userID uint) string {
	return fmt.Sprintf("%d:%d", role, userID)
}

func (f *fakeProfileRepo) add(role models.Role, userID uint, profile *models.Profile) {
	f.profiles[profileKey(role, userID)] = profile
}

func (f *fakeProfileRepo) ResolveByRole(ctx context.Context, role models.Role, userID uint) (*models.Profile, error) {
	if role == models.RoleSuperadmin {
		return models.SuperadminProfile(), nil
	}
	profile, ok := f.profiles[profileKey(role, userID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

// ===== BRANCHES =====

type fakeBranchRepo struct {
	branches map[uint]*models.Branch
}

func (f *fakeBranchRepo) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	branch, ok := f.branches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *branch
	return &copied, nil
}

// ===== SETTINGS =====

type fakeSettingRepo struct {
	sessionID uint
}

func (f *fakeSettingRepo) ActiveSessionID(ctx context.Context) (uint, error) {
	return f.sessionID, nil
}

// ===== DASHBOARD =====

type fakeDashboardRepo struct {
	enrollmentCount  int64
	staffCount       int64
	admissionCount   int64
	transactionCount int64

	classCounts  []repositories.ClassCount
	moneySummary repositories.MoneySummary
	dayStudents  int64
	dayStaff     int64

	enrollments map[uint]*models.Enroll
	attendance  map[uint]*repositories.AttendanceSummary
	allocations map[uint]*models.FeeAllocation
	children    map[uint][]models.Student

	// Captured arguments for scoping assertions.
	lastBranchID  *uint
	lastSessionID uint
}

func (f *fakeDashboardRepo) CountEnrollments(ctx context.Context, branchID *uint, sessionID uint) (int64, error) {
	f.lastBranchID = branchID
	f.lastSessionID = sessionID
	return f.enrollmentCount, nil
}

func (f *fakeDashboardRepo) CountStaff(ctx context.Context, branchID *uint) (int64, error) {
	return f.staffCount, nil
}

func (f *fakeDashboardRepo) CountAdmissions(ctx context.Context, branchID *uint, since time.Time) (int64, error) {
	return f.admissionCount, nil
}

func (f *fakeDashboardRepo) CountTransactions(ctx context.Context, branchID *uint, since time.Time) (int64, error) {
	return f.transactionCount, nil
}

func (f *fakeDashboardRepo) StudentsByClass(ctx context.Context, branchID *uint, sessionID uint) ([]repositories.ClassCount, error) {
	return f.classCounts, nil
}

func (f *fakeDashboardRepo) SumTransactions(ctx context.Context, branchID *uint, from, to time.Time) (*repositories.MoneySummary, error) {
	summary := f.moneySummary
	return &summary, nil
}

func (f *fakeDashboardRepo) AttendanceWeek(ctx context.Context, branchID *uint, days []time.Time) ([]repositories.AttendanceDayCount, error) {
	out := make([]repositories.AttendanceDayCount, 0, len(days))
	for _, day := range days {
		out = append(out, repositories.AttendanceDayCount{
			Day:      day.Format("Jan 2"),
			Students: f.dayStudents,
			Staff:    f.dayStaff,
		})
	}
	return out, nil
}

func (f *fakeDashboardRepo) CurrentEnrollment(ctx context.Context, studentID, sessionID uint) (*models.Enroll, error) {
	f.lastSessionID = sessionID
	enroll, ok := f.enrollments[studentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *enroll
	return &copied, nil
}

func (f *fakeDashboardRepo) StudentAttendanceSummary(ctx context.Context, enrollID uint, since time.Time) (*repositories.AttendanceSummary, error) {
	summary, ok := f.attendance[enrollID]
	if !ok {
		return &repositories.AttendanceSummary{}, nil
	}
	copied := *summary
	return &copied, nil
}

func (f *fakeDashboardRepo) FeeAllocationWithPayments(ctx context.Context, studentID, sessionID uint) (*models.FeeAllocation, error) {
	allocation, ok := f.allocations[studentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *allocation
	return &copied, nil
}

func (f *fakeDashboardRepo) ChildrenWithEnrollments(ctx context.Context, parentID, sessionID uint) ([]models.Student, error) {
	f.lastSessionID = sessionID
	return f.children[parentID], nil
}
