package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ActorIDKey is the gin context key holding the authenticated actor.
const ActorIDKey = "actorID"

// IdentityMiddleware extracts the already-authenticated caller identity from
// the X-Actor-ID header. Authentication itself happens upstream; this service
// only trusts the gateway-provided identity.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor-ID")
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-Actor-ID header"})
			return
		}
		c.Set(ActorIDKey, actor)
		c.Next()
	}
}

// ActorID returns the caller identity set by IdentityMiddleware.
func ActorID(c *gin.Context) string {
	return c.GetString(ActorIDKey)
}
