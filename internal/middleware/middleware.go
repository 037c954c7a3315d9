package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey is the fiber locals key holding the request id.
const RequestIDKey = "requestid"

// RequestID assigns every request a UUIDv4, honouring an incoming X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: RequestIDKey,
	})
}

// GetRequestID returns the id assigned by RequestID, or "" outside of it.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDKey).(string)
	return id
}

// Logger logs every request with timing information. Errors from the chain
// are rendered through the app's error handler first so the logged status
// matches the response.
func Logger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				logger.Error().
					Err(err).
					Str("request_id", GetRequestID(c)).
					Msg("error handler failed")
				if sendErr := c.SendStatus(fiber.StatusInternalServerError); sendErr != nil {
					logger.Error().
						Err(sendErr).
						Str("request_id", GetRequestID(c)).
						Msg("failed to send error response")
				}
			}
		}

		status := c.Response().StatusCode()
		event := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error()
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
		}

		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.IP()).
			Msg("http request")
		return nil
	}
}
