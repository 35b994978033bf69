package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, upstream_error, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	Kind      string `json:"kind,omitempty"`
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
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// classify maps err onto an HTTP status and error code by kind.
func classify(err error) APIError {
	kind := domain.ErrorKind(err)
	switch {
	case errors.Is(err, domain.ErrInvalidBounds):
		return APIError{Status: fiber.StatusBadRequest, Code: "bad_request", Message: err.Error(), Kind: kind}
	case errors.Is(err, context.DeadlineExceeded):
		return APIError{Status: fiber.StatusGatewayTimeout, Code: "timeout", Message: "analysis did not finish in time", Kind: kind}
	case errors.Is(err, domain.ErrUpstreamRequest),
		errors.Is(err, domain.ErrUpstreamStatus),
		errors.Is(err, domain.ErrUpstreamParse):
		return APIError{Status: fiber.StatusBadGateway, Code: "upstream_error", Message: err.Error(), Kind: kind}
	default:
		return APIError{Status: fiber.StatusInternalServerError, Code: "internal_error", Message: err.Error(), Kind: kind}
	}
}

// errFromDomain writes the response for a usecase error.
func errFromDomain(c *fiber.Ctx, err error) error {
	apiErr := classify(err)
	apiErr.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(apiErr.Status).JSON(apiErr)
}
