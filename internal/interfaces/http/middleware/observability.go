package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// Observability returns a middleware that records Prometheus metrics and an
// access log line for each request. Metrics are labeled with the route
// template, not the concrete path, to keep cardinality bounded.
func Observability(metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	accessLog := log.WithComponent("access")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())

		accessLog.Info(c.Request.Context(), "request handled",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("duration", duration),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}
