package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foyezullahnishan/MovieAPI/models"
	"github.com/foyezullahnishan/MovieAPI/utils"
)

// Authenticate validates the Authorization bearer token and stores the
// caller's identity and role in the request context.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		claims, err := utils.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		c.Set(utils.ContextUserID, claims.UserID)
		c.Set(utils.ContextUsername, claims.Username)
		c.Set(utils.ContextRole, claims.Role)

		c.Next()
	}
}

// AdminOnly rejects authenticated callers whose role is not admin. It must
// run after Authenticate and before any store lookup, so non-admins always
// see 403 rather than a 404 probe.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(utils.ContextRole)
		if r, ok := role.(string); !ok || r != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized as an admin"})
			return
		}
		c.Next()
	}
}
