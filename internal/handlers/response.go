package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"relaychat/server/internal/apperr"
	"relaychat/server/internal/logger"
)

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[*apperr.Kind]errorMapping{
	apperr.ErrValidation:         {fiber.StatusBadRequest, "VALIDATION_ERROR"},
	apperr.ErrNotFound:           {fiber.StatusNotFound, "NOT_FOUND"},
	apperr.ErrConflict:           {fiber.StatusConflict, "CONFLICT"},
	apperr.ErrInvalidTransition:  {fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"},
	apperr.ErrUnauthenticated:    {fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	apperr.ErrForbidden:          {fiber.StatusForbidden, "FORBIDDEN"},
	apperr.ErrStorageUnavailable: {fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
}

// fail writes the error envelope for err.
func fail(c *fiber.Ctx, err error) error {
	m, ok := errorMappings[apperr.KindOf(err)]
	if !ok {
		m = errorMapping{fiber.StatusInternalServerError, "INTERNAL"}
	}

	l := logger.Ctx(c.UserContext())
	switch {
	case m.status >= fiber.StatusInternalServerError:
		l.Error().Err(err).Str("code", m.code).Msg("request failed")
	default:
		l.Debug().Err(err).Str("code", m.code).Msg("request rejected")
	}

	return c.Status(m.status).JSON(fiber.Map{
		"success": false,
		"error":   apperr.Message(err),
		"code":    m.code,
	})
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// ErrorHandler is the Fiber fallback for errors returned by handlers and
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
			"code":    "HTTP_ERROR",
		})
	}
	return fail(c, err)
}
