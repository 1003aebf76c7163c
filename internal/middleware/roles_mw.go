package middleware

import (
	"net/http"
	"slices"

	"receivables_monitor/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware allows the request through only for the given roles.
// JWTAuthMiddleware must run first.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token, ensure JWT middleware runs first"})
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role type in token"})
			return
		}

		if !slices.Contains(allowedRoles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware allows admins only
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// ViewerMiddleware allows any signed-in analyst
func ViewerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleViewer, model.RoleAdmin)
}
