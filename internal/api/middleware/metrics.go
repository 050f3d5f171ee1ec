// Package middleware provides Echo middleware for listing-notifier.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/listing-notifier/internal/metrics"
)

// unmatchedPath labels requests that hit no route, so arbitrary URLs cannot
// grow the label set.
const unmatchedPath = "unmatched"

// probePaths are scraped or probed constantly and get no request metrics.
var probePaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// healthGauges maps probe paths to the gauge mirroring their last outcome.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// labelled by route template. Probe paths only update their up/down gauge.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := routeLabel(c)

			if _, probe := probePaths[route]; probe {
				err := next(c)
				setHealthGauge(route, c.Response().Status)
				return err
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo render the error so the recorded status is final.
				c.Error(err)
				err = nil
			}

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}

func routeLabel(c echo.Context) string {
	route := c.Path()
	if route == "" || route == "/*" {
		return unmatchedPath
	}
	return route
}

func setHealthGauge(path string, status int) {
	gauge, ok := healthGauges[path]
	if !ok {
		return
	}
	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}
