package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edupulse/school-service/internal/auth"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/services"
	"github.com/edupulse/school-service/internal/utils"
)

const claimsContextKey = "session_claims"

// AuthMiddleware authenticates bearer tokens and enforces role gates.
type AuthMiddleware struct {
	auth   services.AuthService
	logger utils.Logger
}

func NewAuthMiddleware(authService services.AuthService, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   authService,
		logger: logger,
	}
}

// Authenticate extracts and verifies the bearer token. Verification
// includes a credential freshness check, so deactivated accounts are
// rejected here even with an unexpired token.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header must be a bearer token"})
			c.Abort()
			return
		}

		claims, err := am.auth.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			am.handleAuthError(c, err)
			return
		}

		c.Set(claimsContextKey, claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("user_type", claims.UserType)
		c.Next()
	}
}

func (am *AuthMiddleware) handleAuthError(c *gin.Context, err error) {
	message := "Invalid or expired token"
	if err == services.ErrInactiveAccount {
		message = "Invalid or inactive account"
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: message})
	c.Abort()
}

// RequireRoles rejects requests whose authenticated role is not listed.
func (am *AuthMiddleware) RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "Role not found in context"})
			c.Abort()
			return
		}

		for _, role := range allowed {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		c.Abort()
	}
}

// ClaimsFromContext returns the verified session claims set by Authenticate.
func ClaimsFromContext(c *gin.Context) (*auth.SessionClaims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.SessionClaims)
	return claims, ok
}
