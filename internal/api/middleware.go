package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rileyhilliard/hexctl/internal/logger"
)

// requestLogger logs each request at a level matching its status code.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handlers can change c.Request.URL.Path
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := int(math.Ceil(float64(time.Since(start).Nanoseconds()) / 1e6))
		status := c.Writer.Status()

		entry := log.With("status", status).With("latency_ms", latency)

		if len(c.Errors) > 0 {
			entry.Error("%s %s: %s", c.Request.Method, path, c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("%s %s %d (%dms)", c.Request.Method, path, status, latency)
		case status >= http.StatusBadRequest:
			entry.Warn("%s %s %d (%dms)", c.Request.Method, path, status, latency)
		default:
			entry.Debug("%s %s %d (%dms)", c.Request.Method, path, status, latency)
		}
	}
}
