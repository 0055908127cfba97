package middleware

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-registry/pkg/api"
)

// ClientKey names the context value Auth sets to the matched API key's
// label. It is unset when no keys are configured.
const ClientKey = "client_key"

// Auth checks for a valid Bearer token. With no keys configured every
// request is allowed.
func Auth(staticKeys []string) gin.HandlerFunc {
	keys := make([][]byte, 0, len(staticKeys))
	for _, k := range staticKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(api.UnauthorizedError("Missing Authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			_ = c.Error(api.UnauthorizedError("Invalid Authorization header format"))
			c.Abort()
			return
		}

		token := []byte(parts[1])
		for i, k := range keys {
			if subtle.ConstantTimeCompare(token, k) == 1 {
				c.Set(ClientKey, "key:"+strconv.Itoa(i))
				c.Next()
				return
			}
		}

		_ = c.Error(api.UnauthorizedError("Invalid API Key"))
		c.Abort()
	}
}
