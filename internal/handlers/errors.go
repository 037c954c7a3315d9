package handlers

import (
	"errors"

	"catalog/internal/middleware"
	"catalog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler translates handler errors into status codes and JSON bodies.
// Validation failures become 400, missing products 404 and fiber errors keep
// their code. Anything else is logged and answered with a bare 500 so that
// internals never leak to the client.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErr *models.ValidationError
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &validationErr):
			return writeError(c, fiber.StatusBadRequest, validationErr.Error())
		case errors.Is(err, models.ErrProductNotFound):
			return writeError(c, fiber.StatusNotFound, err.Error())
		case errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError:
			return writeError(c, fiberErr.Code, fiberErr.Message)
		}

		logger.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("internal server error")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: utils.StatusMessage(fiber.StatusInternalServerError),
		})
	}
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   utils.StatusMessage(status),
		Message: message,
	})
}
