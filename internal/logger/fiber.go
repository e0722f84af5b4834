package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const headerRequestID = "X-Request-ID"

// FiberMiddleware returns a Fiber handler that tags every request with a
// request id, stores a child logger in the user context and logs the
// completed request with status, latency and the authenticated user.
func FiberMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		child := logger.With().
			Str(FieldRequestID, reqID).
			Str(FieldMethod, c.Method()).
			Str(FieldPath, c.Path()).
			Str(FieldClientIP, c.IP()).
			Logger()

		c.Set(headerRequestID, reqID)
		c.SetUserContext(WithLogger(c.UserContext(), child))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		evt := child.Info()
		if status >= fiber.StatusInternalServerError {
			evt = child.Error().Err(err)
		}
		evt = evt.Int(FieldStatus, status).
			Int64(FieldLatency, time.Since(start).Milliseconds())
		if userID, ok := c.Locals("userID").(string); ok && userID != "" {
			evt = evt.Str(FieldUserID, userID)
		}
		evt.Msg("request completed")

		return err
	}
}
