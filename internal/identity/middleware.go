package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware extracts the bearer token from the Authorization header,
// verifies it, and stores the identity in the request context.
func AuthMiddleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized - Invalid token",
			})
			return
		}

		rawToken := strings.TrimPrefix(authHeader, "Bearer ")

		id, err := verifier.Verify(c.Request.Context(), rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized - Invalid token",
			})
			return
		}

		c.Set("user_id", id.UserID)
		c.Set("email", id.Email)

		c.Next()
	}
}

// CurrentUser returns the verified user id set by AuthMiddleware.
func CurrentUser(c *gin.Context) (string, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
