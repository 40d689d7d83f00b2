package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/freecyberhawk/hakobot/internal/pkg/response"
)

// SecretParam is the route parameter carrying the webhook secret.
const SecretParam = "secret"

// WebhookSecret rejects webhook calls whose path secret does not match. An
// empty secret accepts every call.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		got := c.Param(SecretParam)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
