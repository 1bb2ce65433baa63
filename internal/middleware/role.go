package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/response"
)

// RoleDirectory resolves the canonical role of a user.
type RoleDirectory interface {
	GetRole(ctx context.Context, userID int64) (domain.Role, error)
}

// ResolveRole replaces the token role with the canonical role held by the
// user directory, so demotions take effect before the token expires.
func ResolveRole(dir RoleDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		role, err := dir.GetRole(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				response.Error(c, http.StatusUnauthorized, "UNKNOWN_USER", "User no longer exists")
			} else {
				_ = c.Error(err)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve role")
			}
			c.Abort()
			return
		}

		c.Set("role", string(role))
		c.Next()
	}
}

// CurrentRole returns the canonical role set by ResolveRole.
func CurrentRole(c *gin.Context) domain.Role {
	return domain.Role(c.GetString("role"))
}

// RequireRole lets the request through only for one of roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("role"); !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		current := CurrentRole(c)
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// ReviewersOnly admits admins and supervisors.
func ReviewersOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleSupervisor)
}
