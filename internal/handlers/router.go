package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edupulse/school-service/internal/config"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/services"
	"github.com/edupulse/school-service/internal/utils"
	"github.com/edupulse/school-service/internal/validator"
)

type HandlerManager struct {
	serviceManager   services.ServiceManager
	authHandler      *AuthHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	requestValidator *validator.RequestValidator,
	logger utils.Logger,
	cfg *config.Config,
) *HandlerManager {
	return &HandlerManager{
		serviceManager:   serviceManager,
		authHandler:      NewAuthHandler(serviceManager.Auth(), serviceManager.PasswordReset(), requestValidator, logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), cfg.StrictChildOwnership, logger),
		authMiddleware:   NewAuthMiddleware(serviceManager.Auth(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	{
		// Auth routes; login and the reset flow are the only unauthenticated
		// endpoints in the service.
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.POST("/forgot-password", hm.authHandler.ForgotPassword)
			authRoutes.POST("/reset-password", hm.authHandler.ResetPassword)
			authRoutes.GET("/me", hm.authMiddleware.Authenticate(), hm.authHandler.Me)
		}

		// Dashboard routes, all bearer-token protected and role gated.
		dashboard := v1.Group("/dashboard")
		dashboard.Use(hm.authMiddleware.Authenticate())
		{
			dashboard.GET("", hm.dashboardHandler.GetDashboard)

			adminGate := hm.authMiddleware.RequireRoles(models.RoleSuperadmin, models.RoleAdmin, models.RoleTeacher)
			dashboard.GET("/admin", adminGate, hm.dashboardHandler.GetAdminDashboard)
			dashboard.GET("/admin/export", adminGate, hm.dashboardHandler.ExportAdminDashboard)

			dashboard.GET("/student", hm.authMiddleware.RequireRoles(models.RoleStudent, models.RoleParent), hm.dashboardHandler.GetStudentDashboard)
			dashboard.GET("/parent", hm.authMiddleware.RequireRoles(models.RoleParent), hm.dashboardHandler.GetParentDashboard)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "school-service",
	})
}
