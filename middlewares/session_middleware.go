// middlewares/session_middleware.go
package middlewares

import (
	"net/http"

	"github.com/brianvfarias/daily-diet-api/metrics"
	"github.com/brianvfarias/daily-diet-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey is the gin context key holding the caller's session token.
const SessionKey = "sessionID"

// UnauthorizedBody is the response for every request without a session.
var UnauthorizedBody = gin.H{"error": "Unauthorized access. User not validated"}

// RequireSession rejects requests without a session cookie before any
// handler runs.
func RequireSession(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(services.SessionCookieName)
		if err := sessions.RequireValid(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedBody)
			return
		}
		c.Set(SessionKey, token)
		c.Next()
	}
}

// ResolveSession reuses the caller's session or issues a new one and sets
// the cookie on the response.
func ResolveSession(sessions *services.SessionService, secure bool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(services.SessionCookieName)
		resolved, issued, err := sessions.Resolve(token)
		if err != nil {
			log.Error("resolve session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
			return
		}
		if issued {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				services.SessionCookieName,
				resolved,
				int(services.SessionMaxAge.Seconds()),
				"/",
				"",
				secure,
				true,
			)
			metrics.SessionIssued()
		}
		c.Set(SessionKey, resolved)
		c.Next()
	}
}
