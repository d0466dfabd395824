package auth

import (
	"strings"

	httpPlatform "github.com/andreypavlenko/jobmatch/internal/platform/httpx"
	"github.com/gin-gonic/gin"
)

// Middleware validates the bearer token guarding the matching API
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpPlatform.RespondWithError(c, 401, "UNAUTHORIZED", "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpPlatform.RespondWithError(c, 401, "UNAUTHORIZED", "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			httpPlatform.RespondWithError(c, 401, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("caller", claims.Subject)
		c.Next()
	}
}

// Caller extracts the authenticated caller subject from context
func Caller(c *gin.Context) (string, bool) {
	caller, exists := c.Get("caller")
	if !exists {
		return "", false
	}
	return caller.(string), true
}
