package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicalos/clinic-api/internal/handler"
	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/service/auth"
)

// ContextPrincipal is the gin context key holding the resolved *model.Principal.
const ContextPrincipal = "principal"

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets the principal in context.
// Every failure reads the same to the client.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
			c.Abort()
			return
		}

		principal, err := m.authService.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			handler.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireAdmin passes principals holding the admin role or belonging to the
// operator tenant.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil || (!p.IsAdmin() && !p.IsSuperAdmin) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("admin privileges required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin passes only principals from the operator tenant. Roles
// never substitute for the tenant flag here.
func (m *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil || !p.IsSuperAdmin {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("super admin only"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Principal returns the resolved principal, or nil outside authenticated routes.
func Principal(c *gin.Context) *model.Principal {
	if v, exists := c.Get(ContextPrincipal); exists {
		if p, ok := v.(*model.Principal); ok {
			return p
		}
	}
	return nil
}
