package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haulplan/eld-backend/internal/metrics"
)

// Metrics records request counts and latencies for every matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Use the route template so path cardinality stays bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	}
}
