package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the client-generated session identifier
const SessionHeader = "X-Session-Id"

// sessionKey is the gin context key the session id is stored under
const sessionKey = "session_id"

// RequireSession rejects requests without a session id header. The item
// registry is partitioned by session, so an absent id has no home.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"message": "missing " + SessionHeader + " header"},
			})
			return
		}
		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session id set by RequireSession
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
