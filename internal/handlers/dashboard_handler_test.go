package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edupulse/school-service/internal/auth"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/services"
)

// fakeDashboardService records the arguments each call receives.
type fakeDashboardService struct {
	adminBranch    *uint
	adminCalled    bool
	studentID      uint
	studentCalled  bool
	parentID       uint
	parentCalled   bool
	parentChildren []services.ChildSummary
}

func (f *fakeDashboardService) GetAdminDashboard(ctx context.Context, branchID *uint) (*services.AdminDashboardResponse, error) {
	f.adminCalled = true
	f.adminBranch = branchID
	return &services.AdminDashboardResponse{BranchID: branchID}, nil
}

func (f *fakeDashboardService) GetStudentDashboard(ctx context.Context, studentID uint) (*services.StudentDashboardResponse, error) {
	f.studentCalled = true
	f.studentID = studentID
	return &services.StudentDashboardResponse{HasEnrollment: true}, nil
}

func (f *fakeDashboardService) GetParentDashboard(ctx context.Context, parentID uint) (*services.ParentDashboardResponse, error) {
	f.parentCalled = true
	f.parentID = parentID
	return &services.ParentDashboardResponse{Children: f.parentChildren}, nil
}

func dashboardRouter(service services.DashboardService, claims *auth.SessionClaims, strict bool) *gin.Engine {
	handler := NewDashboardHandler(service, strict, testHandlerLogger())
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(claimsContextKey, claims)
		c.Next()
	})
	router.GET("/dashboard", handler.GetDashboard)
	router.GET("/dashboard/admin", handler.GetAdminDashboard)
	router.GET("/dashboard/student", handler.GetStudentDashboard)
	router.GET("/dashboard/parent", handler.GetParentDashboard)
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestDispatchByUserType(t *testing.T) {
	branch := uint(3)
	tests := []struct {
		name   string
		claims *auth.SessionClaims
		check  func(t *testing.T, service *fakeDashboardService)
	}{
		{
			name:   "student goes to student dashboard",
			claims: staffClaims(models.RoleStudent, &branch),
			check: func(t *testing.T, service *fakeDashboardService) {
				if !service.studentCalled || service.studentID != 10 {
					t.Errorf("student dispatch = %+v", service)
				}
			},
		},
		{
			name:   "parent goes to parent dashboard",
			claims: staffClaims(models.RoleParent, &branch),
			check: func(t *testing.T, service *fakeDashboardService) {
				if !service.parentCalled || service.parentID != 10 {
					t.Errorf("parent dispatch = %+v", service)
				}
			},
		},
		{
			name:   "teacher goes to admin dashboard scoped to own branch",
			claims: staffClaims(models.RoleTeacher, &branch),
			check: func(t *testing.T, service *fakeDashboardService) {
				if !service.adminCalled || service.adminBranch == nil || *service.adminBranch != 3 {
					t.Errorf("admin dispatch = %+v", service)
				}
			},
		},
		{
			name:   "superadmin goes to admin dashboard across branches",
			claims: staffClaims(models.RoleSuperadmin, nil),
			check: func(t *testing.T, service *fakeDashboardService) {
				if !service.adminCalled || service.adminBranch != nil {
					t.Errorf("superadmin dispatch = %+v", service)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeDashboardService{}
			router := dashboardRouter(service, tt.claims, false)

			w := doGet(router, "/dashboard")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			tt.check(t, service)
		})
	}
}

func TestAdminBranchScoping(t *testing.T) {
	ownBranch := uint(5)
	tests := []struct {
		name       string
		claims     *auth.SessionClaims
		path       string
		wantBranch *uint
	}{
		{name: "superadmin free filter", claims: staffClaims(models.RoleSuperadmin, nil), path: "/dashboard/admin?branchId=9", wantBranch: uintPtr(9)},
		{name: "superadmin no filter means all", claims: staffClaims(models.RoleSuperadmin, nil), path: "/dashboard/admin", wantBranch: nil},
		{name: "teacher override ignored", claims: staffClaims(models.RoleTeacher, &ownBranch), path: "/dashboard/admin?branchId=9", wantBranch: &ownBranch},
		{name: "admin scoped to own branch", claims: staffClaims(models.RoleAdmin, &ownBranch), path: "/dashboard/admin", wantBranch: &ownBranch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeDashboardService{}
			router := dashboardRouter(service, tt.claims, false)

			w := doGet(router, tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if (service.adminBranch == nil) != (tt.wantBranch == nil) {
				t.Fatalf("branch = %v, want %v", service.adminBranch, tt.wantBranch)
			}
			if tt.wantBranch != nil && *service.adminBranch != *tt.wantBranch {
				t.Errorf("branch = %d, want %d", *service.adminBranch, *tt.wantBranch)
			}
		})
	}
}

func TestAdminBranchFilterMalformed(t *testing.T) {
	service := &fakeDashboardService{}
	router := dashboardRouter(service, staffClaims(models.RoleSuperadmin, nil), false)

	w := doGet(router, "/dashboard/admin?branchId=abc")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if service.adminCalled {
		t.Error("service called despite malformed filter")
	}
}

func TestStudentDashboardParentSelectsChild(t *testing.T) {
	service := &fakeDashboardService{}
	router := dashboardRouter(service, staffClaims(models.RoleParent, nil), false)

	w := doGet(router, "/dashboard/student?studentId=42")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if service.studentID != 42 {
		t.Errorf("studentID = %d, want 42", service.studentID)
	}
}

func TestStudentDashboardParentRequiresStudentID(t *testing.T) {
	service := &fakeDashboardService{}
	router := dashboardRouter(service, staffClaims(models.RoleParent, nil), false)

	w := doGet(router, "/dashboard/student")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestStudentDashboardStudentIgnoresOverride(t *testing.T) {
	service := &fakeDashboardService{}
	router := dashboardRouter(service, staffClaims(models.RoleStudent, nil), false)

	w := doGet(router, "/dashboard/student?studentId=42")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	// Students always see their own data.
	if service.studentID != 10 {
		t.Errorf("studentID = %d, want 10", service.studentID)
	}
}

func TestStudentDashboardStrictOwnership(t *testing.T) {
	tests := []struct {
		name     string
		children []services.ChildSummary
		want     int
	}{
		{name: "owned child allowed", children: []services.ChildSummary{{StudentID: 42}}, want: http.StatusOK},
		{name: "unowned child forbidden", children: []services.ChildSummary{{StudentID: 7}}, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeDashboardService{parentChildren: tt.children}
			router := dashboardRouter(service, staffClaims(models.RoleParent, nil), true)

			w := doGet(router, "/dashboard/student?studentId=42")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestParentDashboardUsesOwnID(t *testing.T) {
	service := &fakeDashboardService{}
	router := dashboardRouter(service, staffClaims(models.RoleParent, nil), false)

	w := doGet(router, "/dashboard/parent")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if service.parentID != 10 {
		t.Errorf("parentID = %d, want 10", service.parentID)
	}
}

func uintPtr(v uint) *uint {
	return &v
}
