package webapi

import (
	"errors"
	"log/slog"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Success writes the uniform success envelope with any payload fields merged
// in beside the status.
func Success(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Fail writes the uniform error envelope.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// FailFromError maps a service error to its HTTP status. Internal errors are
// logged with detail and returned as an opaque message.
func FailFromError(c *fiber.Ctx, err error, logger *slog.Logger) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("request failed", "path", c.Path(), "error", err)
		return Fail(c, status, "An unexpected error occurred.")
	}
	return Fail(c, status, err.Error())
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrShopNotFound),
		errors.Is(err, domain.ErrCaisseNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAdminNotFound),
		errors.Is(err, domain.ErrVoucherNotFound),
		errors.Is(err, domain.ErrThresholdNotFound),
		errors.Is(err, domain.ErrSettingsNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrTicketAlreadyUsed),
		errors.Is(err, domain.ErrPhoneAlreadyUsed),
		errors.Is(err, domain.ErrCodeAlreadyUsed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInsufficientCashback),
		errors.Is(err, domain.ErrInvalidSponsorCode),
		errors.Is(err, domain.ErrInvalidTicketDate):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// errResponseWritten signals that BindAndValidate already wrote the 400
// envelope; handlers just stop.
var errResponseWritten = errors.New("response already written")

// BindAndValidate parses the JSON body into T and validates it. On failure it
// writes the 400 envelope itself and returns errResponseWritten.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = Fail(c, fiber.StatusBadRequest, "Invalid request body.")
		return nil, errResponseWritten
	}
	if err := validate.Struct(&input); err != nil {
		_ = Fail(c, fiber.StatusBadRequest, err.Error())
		return nil, errResponseWritten
	}
	return &input, nil
}
