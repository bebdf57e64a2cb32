package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edupulse/school-service/internal/services"
	"github.com/edupulse/school-service/internal/utils"
	"github.com/edupulse/school-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	auth      services.AuthService
	reset     services.PasswordResetService
	validator *validator.RequestValidator
}

func NewAuthHandler(authService services.AuthService, resetService services.PasswordResetService, v *validator.RequestValidator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		auth:        authService,
		reset:       resetService,
		validator:   v,
	}
}

// Login authenticates a user and issues a session token
// @Summary Log in
// @Description Verifies credentials and returns a signed session token plus the public identity view
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}
	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	h.LogRequest(c, "Login attempt", "username", req.Username)

	response, err := h.auth.Login(c.Request.Context(), req, clientInfoFromRequest(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ForgotPassword starts the password reset flow
// @Summary Request a password reset
// @Description Always returns the same generic message, whether or not the username exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ForgotPasswordRequest true "Username"
// @Success 200 {object} services.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}
	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	h.LogRequest(c, "Password reset requested", "username", req.Username)

	response, err := h.reset.RequestReset(c.Request.Context(), req.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ResetPassword consumes a reset token and replaces the password
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ResetPasswordRequest true "Reset key and new password"
// @Success 200 {object} services.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}
	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	h.LogRequest(c, "Password reset submitted")

	response, err := h.reset.ResetPassword(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me returns the identity carried by the verified session token
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.UserInfo
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	user, err := h.auth.CurrentUser(claims)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// clientInfoFromRequest captures coarse client metadata for the login audit
// log. Everything here is best effort.
func clientInfoFromRequest(c *gin.Context) services.ClientInfo {
	userAgent := c.Request.UserAgent()
	return services.ClientInfo{
		IP:        c.ClientIP(),
		Platform:  detectPlatform(userAgent),
		Browser:   detectBrowser(userAgent),
		UserAgent: userAgent,
	}
}

func detectPlatform(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		return "iOS"
	case strings.Contains(userAgent, "Mac OS"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	}
	return ""
}

func detectBrowser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Edg/"):
		return "Edge"
	case strings.Contains(userAgent, "OPR/"):
		return "Opera"
	case strings.Contains(userAgent, "Chrome/"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox/"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari/"):
		return "Safari"
	}
	return ""
}
