package middleware

import (
	"github.com/gin-gonic/gin"

	"charaforge-backend/internal/shared/response"
)

// AdminMiddleware checks the role set by AuthMiddleware. Must be
// registered after AuthMiddleware on the same group.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get(ContextUserRole)
		if !exists {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || role != "admin" {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
