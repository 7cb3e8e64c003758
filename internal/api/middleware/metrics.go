package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/stock-tracker/internal/metrics"
)

// probeGauges replace histogram and counter samples for probe paths with a
// 0/1 gauge of the last result.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics records request duration and count per method, route and status.
// The route template is used as the path label, so /api/v1/stores/de and
// /api/v1/stores/at share a series. /metrics itself is not recorded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			if path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status

			if g, ok := probeGauges[path]; ok {
				if status >= 200 && status < 300 {
					g.Set(1)
				} else {
					g.Set(0)
				}
				return nil
			}

			code := strconv.Itoa(status)
			method := c.Request().Method
			metrics.HTTPRequestDuration.WithLabelValues(method, path, code).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
			return nil
		}
	}
}
