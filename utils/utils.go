package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"smart-delivery/logger"
	"smart-delivery/types"

	"github.com/gofiber/fiber/v2"
)

var (
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// IsValidPhone reports whether phone is exactly 10 digits.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// SanitizePhone strips every non-digit character.
func SanitizePhone(phone string) string {
	return nonDigitPattern.ReplaceAllString(phone, "")
}

// MaskPhone hides all but the last four digits.
func MaskPhone(phone string) string {
	clean := SanitizePhone(phone)
	if len(clean) <= 4 {
		return clean
	}
	return strings.Repeat("*", len(clean)-4) + clean[len(clean)-4:]
}

// ParamUint reads a positive integer route parameter.
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, types.Validation("invalid %s", name)
	}
	return uint(n), nil
}

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(kind types.ErrorKind) int {
	switch kind {
	case types.KindValidation:
		return fiber.StatusBadRequest
	case types.KindConflict:
		return fiber.StatusConflict
	case types.KindInvalidState:
		return fiber.StatusUnprocessableEntity
	case types.KindNotFound:
		return fiber.StatusNotFound
	case types.KindUnauthorized:
		return fiber.StatusUnauthorized
	case types.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusServiceUnavailable
	}
}

// RespondError writes the standard error envelope for err.
func RespondError(c *fiber.Ctx, err error) error {
	kind := types.KindOf(err)
	status := HTTPStatus(kind)
	message := err.Error()

	var appErr *types.AppError
	switch {
	case !errors.As(err, &appErr):
		logger.Error("Unhandled error", err)
		message = "Internal server error"
	case kind == types.KindDependency:
		// storage details stay in the log
		logger.Error(appErr.Message, appErr.Err)
		message = appErr.Message
	}

	return c.Status(status).JSON(types.ErrorResponse{
		Message: message,
		Status:  status,
		Kind:    string(kind),
	})
}

// Respond writes the standard success envelope.
func Respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    data,
	})
}
