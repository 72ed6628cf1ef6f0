package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// HTTPRecorder receives one observation per handled request
type HTTPRecorder interface {
	ObserveHTTP(method, route, status string, d time.Duration)
}

// RequestMetrics records the latency of every request by method, route
// template and status. Unmatched routes are reported as "unmatched".
func RequestMetrics(recorder HTTPRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			recorder.ObserveHTTP(c.Request().Method, route, strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}
