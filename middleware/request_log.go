package middleware

import (
	"strconv"
	"time"

	"smart-delivery/logger"
	"smart-delivery/metrics"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger records every request through asyncLogger and observes its
// latency. Entries are written after the handler chain has produced a
// response.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the status before logging
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		metrics.ObserveRequest(c.Method(), strconv.Itoa(c.Response().StatusCode()), elapsed.Seconds())
		if asyncLogger != nil {
			asyncLogger.Log(utils.CreateSanitizedLogEntry(c, CurrentUserID(c), elapsed))
		}
		return nil
	}
}
