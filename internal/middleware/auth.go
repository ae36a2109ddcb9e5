// Package middleware contains Gin middleware functions.
// Middleware in Gin is a handler that runs before (or after) your route handler.
// It calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fleveque/logolist/internal/auth"
)

// Context keys set by the auth middleware.
const (
	ContextAPIKey = "api_key"
	ContextAdmin  = "admin_username"
)

// APIKeyAuth returns middleware that validates API keys.
// The key can be provided via X-API-Key header or api_key query param
// (query param is needed for <img src="...?api_key=xxx"> usage in browsers).
// With no keys configured the public API is open and every request passes.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	// map[string]struct{} is Go's set idiom — struct{} takes zero bytes.
	keySet := make(map[string]struct{}, len(validKeys))
	for _, k := range validKeys {
		keySet[k] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(keySet) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			return
		}

		// Downstream middleware (rate limiting) buckets by key.
		c.Set(ContextAPIKey, key)
		c.Next()
	}
}

// AdminAuth returns middleware that requires a valid admin session token in
// the Authorization header ("Bearer <token>"). The admin's username is stored
// in the context under ContextAdmin.
func AdminAuth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
			})
			return
		}

		claims, err := jwt.Validate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextAdmin, claims.Subject)
		c.Next()
	}
}

// AdminUsername returns the username AdminAuth stored for this request.
func AdminUsername(c *gin.Context) string {
	return c.GetString(ContextAdmin)
}
