package auth

import (
	"net/http"
	"strings"

	"github.com/ashendes/bec-market/internal/models"
	"github.com/gin-gonic/gin"
)

const profileKey = "auth.profile"

// Required rejects requests without a valid bearer token and stores the
// caller's profile in the context.
func (t *Tokens) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		claims, err := t.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		profile := claims.Profile()
		c.Set(profileKey, &profile)
		c.Next()
	}
}

// AdminOnly must run after Required.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := Profile(c)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !profile.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

// Profile returns the caller set by Required, or nil.
func Profile(c *gin.Context) *models.UserProfile {
	v, exists := c.Get(profileKey)
	if !exists {
		return nil
	}
	profile, _ := v.(*models.UserProfile)
	return profile
}
