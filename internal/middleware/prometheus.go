package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphboard/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route so arbitrary
// paths don't become label values.
const unmatchedRoute = "unmatched"

// PrometheusMiddleware counts requests by route pattern and records their
// latency. Change feed upgrades are counted but their duration, which is the
// lifetime of the socket, is not observed.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		code := c.Writer.Status()
		status := strconv.Itoa(code)

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()

		if code == http.StatusSwitchingProtocols {
			return
		}

		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
