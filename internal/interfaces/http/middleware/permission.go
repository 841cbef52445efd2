package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when permission is denied (optional)
	OnDenied func(c *gin.Context, requiredPerms []string)
}

// RequireSubject allows only tokens issued to the given subject type
func RequireSubject(subject auth.SubjectType) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.SubjectType != subject {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "This endpoint is not available for "+string(claims.SubjectType)+" accounts")
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only admin tokens
func RequireAdmin() gin.HandlerFunc {
	return RequireSubject(auth.SubjectAdmin)
}

// RequirePermission requires an admin token carrying the permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequirePermissionWithConfig creates middleware with custom config
func RequirePermissionWithConfig(permission string, cfg PermissionConfig) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(cfg, permission)
}

// RequireAnyPermission requires an admin token carrying at least one of the permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig is RequireAnyPermission with custom config.
// Superadmin tokens carry every permission, so no role shortcut is needed.
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		if !claims.IsAdmin() || !claims.HasAnyPermission(permissions...) {
			handlePermissionDenied(c, cfg, claims, permissions)
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Permission check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", permissions),
			)
		}

		c.Next()
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, claims *auth.Claims, requiredPerms []string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", claims.UserID),
			zap.String("subject_type", string(claims.SubjectType)),
			zap.Strings("required", requiredPerms),
			zap.String("path", c.Request.URL.Path),
		)
	}

	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredPerms)
		c.Abort()
		return
	}

	abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient permissions")
}

// HasPermission reports whether the authenticated admin holds the permission
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	return claims != nil && claims.IsAdmin() && claims.HasPermission(permission)
}
