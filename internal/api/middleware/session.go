// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note — Middleware Pattern (Gin):
// A gin middleware is a gin.HandlerFunc that either calls c.Next() to pass
// control down the chain or c.Abort() to stop it. Always pair an error
// response with c.Abort(), otherwise the next handler still runs.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/repository"
	"poiviewer/internal/services"
	"poiviewer/pkg/utils"
)

// Context keys set by SessionAuth.
const (
	SessionIDKey   = "session_id"
	CoordinatorKey = "coordinator"
)

// SessionAuth resolves the viewer session of a request. The session id comes
// from "Authorization: Bearer <session-id>" or, for websocket upgrades where
// browsers cannot set headers, from the "session" query parameter.
// Resolving the session also marks it as used.
func SessionAuth(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := sessionID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			c.Abort()
			return
		}
		if !utils.ValidSessionID(id) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session id format"})
			c.Abort()
			return
		}

		coord, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown or expired session"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			c.Abort()
			return
		}

		c.Set(SessionIDKey, id)
		c.Set(CoordinatorKey, coord)
		c.Next()
	}
}

func sessionID(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if q := c.Query("session"); q != "" {
		return q, true
	}
	return "", false
}

// GetSessionID returns the id stored by SessionAuth.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetCoordinator returns the session coordinator stored by SessionAuth.
//
// Go Learning Note — Type Assertion:
// c.Get returns an interface value; .(*services.Coordinator) converts it
// back. The panicking form is fine here because the route group guarantees
// SessionAuth ran first.
func GetCoordinator(c *gin.Context) *services.Coordinator {
	v, _ := c.Get(CoordinatorKey)
	return v.(*services.Coordinator)
}
