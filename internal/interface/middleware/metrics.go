package middleware

import (
	"expvar"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Request metrics published through expvar and served at /debug/vars.
var (
	requestTotal      = expvar.NewMap("http_requests_total")
	requestDurationMs = expvar.NewMap("http_request_duration_ms_sum")
)

// TrackMetrics counts requests and accumulates latency per method+route.
func TrackMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		key := c.Request.Method + " " + path + " " + strconv.Itoa(c.Writer.Status())
		requestTotal.Add(key, 1)
		requestDurationMs.Add(c.Request.Method+" "+path, time.Since(start).Milliseconds())
	}
}
