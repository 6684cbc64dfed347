package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyToken = "session_token"

// BearerToken pulls the session token out of the Authorization header and
// stores it in the request context. It does not validate the token: each
// core operation resolves the session itself, at the point its check order
// requires. Only a missing or malformed header is rejected here.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		c.Set(contextKeyToken, parts[1])
		c.Next()
	}
}

// Token returns the raw session token stored by BearerToken, or "" when
// the middleware did not run.
func Token(c *gin.Context) string {
	val, exists := c.Get(contextKeyToken)
	if !exists {
		return ""
	}
	token, ok := val.(string)
	if !ok {
		return ""
	}
	return token
}
