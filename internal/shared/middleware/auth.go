package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"charaforge-backend/internal/shared/response"
	"charaforge-backend/pkg/jwt"
)

// Context keys set by AuthMiddleware. Downstream handlers read the
// caller's identity from here, never from request fields.
const (
	ContextUserID      = "userID"
	ContextUserRole    = "role"
	ContextDisplayName = "displayName"
)

// AuthMiddleware verifies the bearer token and stores the resolved
// identity on the request context.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextDisplayName, claims.DisplayName)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller identity when a valid
// bearer token is present but lets anonymous requests through. Used on
// read endpoints where visibility depends on who is asking.
func OptionalAuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		if userID, err := uuid.Parse(claims.UserID); err == nil {
			c.Set(ContextUserID, userID)
			c.Set(ContextUserRole, claims.Role)
			c.Set(ContextDisplayName, claims.DisplayName)
		}

		c.Next()
	}
}

// CallerID returns the authenticated user's id from the context.
// Handlers behind AuthMiddleware can assume ok == true.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
