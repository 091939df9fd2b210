package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/logging"
)

// RequestLogger writes one zerolog line per request. Server errors log at
// error level, client errors at warn and the rest at debug.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logging.Debug()
		switch {
		case status >= 500:
			event = logging.Error()
		case status >= 400:
			event = logging.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("session", GetSessionID(c)).
			Msg("http request")
	}
}
