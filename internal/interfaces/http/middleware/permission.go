package middleware

import (
	"net/http"

	"github.com/erp/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
	// AllowAnonymous lets requests without claims through. Set when
	// authentication is disabled for the deployment.
	AllowAnonymous bool
}

// PermissionGuard builds permission checks that share one configuration
type PermissionGuard struct {
	cfg PermissionConfig
}

// NewPermissionGuard creates a PermissionGuard
func NewPermissionGuard(cfg PermissionConfig) *PermissionGuard {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &PermissionGuard{cfg: cfg}
}

// Require creates middleware that requires any of the given permissions
func (g *PermissionGuard) Require(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			if g.cfg.AllowAnonymous {
				c.Next()
				return
			}
			g.deny(c, permissions, "No authentication claims found")
			return
		}

		for _, p := range permissions {
			if claims.HasPermission(p) {
				c.Next()
				return
			}
		}
		g.deny(c, permissions, "User lacks required permission")
	}
}

func (g *PermissionGuard) deny(c *gin.Context, required []string, reason string) {
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.Strings("required_permissions", required),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if claims := GetJWTClaims(c); claims != nil {
		fields = append(fields, zap.String("user_id", claims.UserID), zap.Strings("user_permissions", claims.Permissions))
	}
	g.cfg.Logger.Warn("Permission denied", fields...)

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: insufficient permissions",
		GetRequestID(c),
	))
}

// RequirePermission requires any of the given permissions, rejecting anonymous requests
func RequirePermission(permissions ...string) gin.HandlerFunc {
	return NewPermissionGuard(PermissionConfig{}).Require(permissions...)
}
