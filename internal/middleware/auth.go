// Package middleware contains the Gin middleware for Wordcraft's HTTP API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyAPIKey is where the authenticated key is stored on gin.Context.
const ContextKeyAPIKey = "api_key"

// APIKeyAuth accepts requests carrying one of validKeys in the X-API-Key
// header. Unknown keys get 401.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	return keyAuth(validKeys, http.StatusUnauthorized, "API key")
}

// AdminKeyAuth is APIKeyAuth for admin routes. Unknown keys get 403.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	return keyAuth(adminKeys, http.StatusForbidden, "admin API key")
}

func keyAuth(keys []string, invalidStatus int, label string) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			keySet[k] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + label,
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(invalidStatus, gin.H{
				"error": "invalid " + label,
			})
			return
		}

		c.Set(ContextKeyAPIKey, key)
		c.Next()
	}
}
