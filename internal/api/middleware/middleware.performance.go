package middleware

import (
	"time"

	"retail_sales/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// PerformanceMiddleware đo thời gian xử lý request và ghi vào performance log.
// Request chậm hơn slowThreshold được nâng lên mức warn.
func PerformanceMiddleware() fiber.Handler {
	const slowThreshold = 500 * time.Millisecond

	return func(c fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		elapsed := time.Since(start)
		entry := logger.GetPerformanceLogger().WithFields(logrus.Fields{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": elapsed.Milliseconds(),
			"ip":          c.IP(),
		})

		if rid := c.GetRespHeader("X-Request-ID"); rid != "" {
			entry = entry.WithField("request_id", rid)
		}

		if elapsed >= slowThreshold {
			entry.Warn("Slow request")
		} else {
			entry.Debug("Request completed")
		}

		return err
	}
}
