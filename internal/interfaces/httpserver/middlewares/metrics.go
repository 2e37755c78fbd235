package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-share/internal/infrastructure/metrics"
)

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
