package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/infrastructure/metrics"
)

// MetricsMiddleware counts every request and records its duration, labeled
// by method, route template and status.
func MetricsMiddleware(manager metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// FullPath is empty for unmatched routes; keep them out of the
		// label set so 404 scans cannot explode cardinality.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		labels := []string{
			"method", c.Request.Method,
			"path", path,
			"status", strconv.Itoa(c.Writer.Status()),
		}

		ctx := c.Request.Context()
		manager.IncrementCounter(ctx, metrics.HTTPRequestsTotal, labels...)
		manager.RecordHistogram(ctx, metrics.HTTPRequestDuration, time.Since(start).Seconds(), labels...)
	}
}
