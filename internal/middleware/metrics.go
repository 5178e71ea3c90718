package middleware

import (
	"strconv"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/errs"
	"github.com/hadywafa/DatabaseHub/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type MetricsMiddleware struct{}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Record observes request count and latency per route template. Unmatched
// routes share one label to keep cardinality bounded.
func (m *MetricsMiddleware) Record() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			status := c.Response().Status
			if err != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError
				switch {
				case errors.As(err, &httpErr):
					status = httpErr.Status
				case errors.As(err, &echoErr):
					status = echoErr.Code
				default:
					status = 500
				}
			}

			method := c.Request().Method
			metrics.RequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
