package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/edupulse/school-service/internal/auth"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/services"
	"github.com/edupulse/school-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService

	// When set, a parent requesting a specific child's dashboard must have
	// that child linked to them. Off by default to preserve the historical
	// behavior, which never re-validated ownership.
	strictChildOwnership bool
}

func NewDashboardHandler(service services.DashboardService, strictChildOwnership bool, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:          NewBaseHandler(logger),
		service:              service,
		strictChildOwnership: strictChildOwnership,
	}
}

// GetDashboard dispatches to the dashboard matching the caller's user type
// @Summary Dashboard for the current user
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} interface{}
// @Failure 401 {object} ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Dashboard dispatch", "user_type", claims.UserType)

	switch claims.UserType {
	case models.UserTypeStudent:
		response, err := h.service.GetStudentDashboard(c.Request.Context(), claims.UserID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
	case models.UserTypeParent:
		response, err := h.service.GetParentDashboard(c.Request.Context(), claims.UserID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
	default:
		// Staff and superadmin land on the admin dashboard scoped to their
		// own branch (superadmin has none, meaning all branches).
		response, err := h.service.GetAdminDashboard(c.Request.Context(), claims.BranchID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

// GetAdminDashboard returns the branch-scoped admin dashboard
// @Summary Admin dashboard
// @Description Superadmin may filter by any branchId or none for all branches; other staff are always scoped to their own branch
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param branchId query int false "Branch filter (superadmin only)"
// @Success 200 {object} services.AdminDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	branchID, ok := h.adminBranchScope(c, claims)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting admin dashboard", "branch_id", branchID)

	response, err := h.service.GetAdminDashboard(c.Request.Context(), branchID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// adminBranchScope resolves the effective branch filter. Only superadmin
// may choose; any client-supplied override from other roles is ignored.
func (h *DashboardHandler) adminBranchScope(c *gin.Context, claims *auth.SessionClaims) (*uint, bool) {
	if claims.Role == models.RoleSuperadmin {
		return h.parseUintQuery(c, "branchId")
	}
	return claims.BranchID, true
}

// GetStudentDashboard returns one student's dashboard
// @Summary Student dashboard
// @Description Students see their own data; parents must pass studentId to select a child
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Child id (parent callers only)"
// @Success 200 {object} services.StudentDashboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/student [get]
func (h *DashboardHandler) GetStudentDashboard(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	studentID := claims.UserID
	if claims.Role == models.RoleParent {
		requested, ok := h.parseUintQuery(c, "studentId")
		if !ok {
			return
		}
		if requested == nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "studentId is required",
				Details: "parent callers must select a child",
			})
			return
		}
		if h.strictChildOwnership {
			if ok := h.verifyChildOwnership(c, claims.UserID, *requested); !ok {
				return
			}
		}
		studentID = *requested
	}

	h.LogRequest(c, "Getting student dashboard", "student_id", studentID)

	response, err := h.service.GetStudentDashboard(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) verifyChildOwnership(c *gin.Context, parentID, studentID uint) bool {
	parent, err := h.service.GetParentDashboard(c.Request.Context(), parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return false
	}
	for _, child := range parent.Children {
		if child.StudentID == studentID {
			return true
		}
	}
	c.JSON(http.StatusForbidden, ErrorResponse{Message: "Student is not linked to this parent"})
	return false
}

// GetParentDashboard lists the caller's children with enrollment detail
// @Summary Parent dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ParentDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/parent [get]
func (h *DashboardHandler) GetParentDashboard(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Getting parent dashboard", "parent_id", claims.UserID)

	response, err := h.service.GetParentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExportAdminDashboard downloads the admin dashboard as an Excel workbook
// @Summary Export admin dashboard
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param branchId query int false "Branch filter (superadmin only)"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Router /dashboard/admin/export [get]
func (h *DashboardHandler) ExportAdminDashboard(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	branchID, ok := h.adminBranchScope(c, claims)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting admin dashboard", "branch_id", branchID)

	dashboard, err := h.service.GetAdminDashboard(c.Request.Context(), branchID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	file, err := buildDashboardWorkbook(dashboard)
	if err != nil {
		utils.FromContext(c, h.logger).Error("Failed to build workbook", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("dashboard-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		utils.FromContext(c, h.logger).Error("Failed to stream workbook", "error", err)
	}
}

func buildDashboardWorkbook(dashboard *services.AdminDashboardResponse) (*excelize.File, error) {
	file := excelize.NewFile()

	const sheet = "Overview"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total students", dashboard.Counts.TotalStudents},
		{"Total staff", dashboard.Counts.TotalStaff},
		{"Admissions (30 days)", dashboard.Counts.MonthlyAdmissions},
		{"Transactions (30 days)", dashboard.Counts.MonthlyTransactions},
		{"Income (this month)", dashboard.Charts.IncomeVsExpense.Income},
		{"Expense (this month)", dashboard.Charts.IncomeVsExpense.Expense},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const classSheet = "Students by class"
	if _, err := file.NewSheet(classSheet); err != nil {
		return nil, err
	}
	header := []interface{}{"Class", "Students"}
	if err := file.SetSheetRow(classSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, entry := range dashboard.Charts.StudentsByClass {
		row := []interface{}{entry.Name, entry.Value}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(classSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const attendanceSheet = "Attendance"
	if _, err := file.NewSheet(attendanceSheet); err != nil {
		return nil, err
	}
	attendanceHeader := []interface{}{"Day", "Students", "Staff"}
	if err := file.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return nil, err
	}
	for i, day := range dashboard.Charts.WeeklyAttendance {
		row := []interface{}{day.Day, day.Students, day.Staff}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return file, nil
}
