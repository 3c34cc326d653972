package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/metrics"
)

// MetricsMiddleware records request counts and latency per route template
func MetricsMiddleware(m *metrics.HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not rendered the response yet
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		m.RecordHTTPRequest(c.Method(), c.Route().Path, status, time.Since(start).Seconds())
		return err
	}
}
