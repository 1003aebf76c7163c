package middleware

import (
	"net/http"
	"strings"

	"receivables_monitor/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthAnalystKey  = "authAnalyst"
	AuthUsernameKey = "authUsername"
	AuthRoleKey     = "authRole"
)

// JWTAuthMiddleware rejects requests without a valid bearer token and
// stores the analyst's identity in the gin context
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := jwtUtil.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthAnalystKey, claims.AnalystID)
		c.Set(AuthUsernameKey, claims.Username)
		c.Set(AuthRoleKey, claims.Role)

		c.Next()
	}
}
