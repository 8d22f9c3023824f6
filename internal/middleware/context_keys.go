package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated subject.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated subject from the Gin context.
// It returns the subject and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok
	}
	if v, ok := c.Request.Context().Value(userIDKey).(string); ok {
		return v, true
	}
	return "", false
}
