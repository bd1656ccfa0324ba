package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AdminIDKey is the gin context key holding the authenticated admin's id
const AdminIDKey = "admin_id"

// Authenticator resolves a bearer token to the id of an active admin
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// AdminAuth rejects requests without a bearer token belonging to an active admin
func AdminAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		const prefix = "Bearer "
		if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		adminID, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Next()
	}
}
