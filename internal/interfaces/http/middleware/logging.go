// Package middleware holds the cross-cutting HTTP concerns.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	promx "github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// RequestLogging logs every request and feeds the HTTP metrics.  metrics may
// be nil.
func RequestLogging(logger logging.Logger, metrics *promx.PipelineMetrics) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, path, status, duration)

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.String("client", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}
