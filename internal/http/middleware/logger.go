package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"breachguard/internal/logger"
)

// Logger logs one structured access line per request through the
// request-scoped zap logger.
func Logger() fiber.Handler {
	return LoggerWith(nil)
}

// LoggerWith is Logger writing to base instead of the request-scoped logger.
// A nil base falls back to the request-scoped logger.
func LoggerWith(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// run the app error handler now so the logged status is final
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		l := base
		if l == nil {
			l = logger.Get(c.UserContext())
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		// fiber reuses request memory once the handler returns; cores may keep fields longer
		l.Info("access",
			zap.String("request_id", rid),
			zap.String("method", utils.CopyString(c.Method())),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", c.Response().StatusCode()),
			zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			zap.String("client_ip", utils.CopyString(c.IP())),
			zap.String("user_agent", utils.CopyString(c.Get(fiber.HeaderUserAgent))),
		)

		return nil
	}
}
