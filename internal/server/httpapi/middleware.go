package httpapi

import (
	"net/http"
	"strings"

	"github.com/dbelyakov/noteleaf/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// requireAuth verifies the bearer token and stores the authenticated
// user id in the request context. Missing, malformed, badly signed and
// expired tokens are all rejected identically so callers cannot probe
// token shapes.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the id set by requireAuth. Handlers behind the
// middleware can rely on it being present.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
