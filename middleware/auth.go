package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bidworks/rfp-api/utils"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "user_email"
)

// AuthMiddleware validates the Bearer token and stores the caller's
// identity on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		userID, email, err := utils.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxEmail, email)
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}
