package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// errBadGateway returns a 502 error for upstream failures.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "route_unavailable", msg)
}

// errTooManyVoyages returns a 429 error when the voyage registry is full.
func errTooManyVoyages(c *fiber.Ctx, msg string) error {
	return newError(c, 429, "too_many_voyages", msg)
}

// mapError translates domain errors into API errors.
func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate), errors.Is(err, domain.ErrInvalidRouteOption),
		errors.Is(err, geospatial.ErrInvalidSpeed):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrVoyageNotFound), errors.Is(err, domain.ErrPortNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrNoActiveRoute), errors.Is(err, domain.ErrStaleResponse):
		return errConflict(c, err.Error())
	case errors.Is(err, domain.ErrVoyageLimit):
		return errTooManyVoyages(c, err.Error())
	case errors.Is(err, domain.ErrRouteUnavailable):
		return errBadGateway(c, err.Error())
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
