package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Context keys populated by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// GetUserIDFromContext returns the authenticated user's id set by the auth
// middleware.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return "", errors.New("user id does not exist in the context")
	}
	id, ok := v.(string)
	if !ok {
		return "", errors.New("unable to retrieve user id")
	}
	return id, nil
}
