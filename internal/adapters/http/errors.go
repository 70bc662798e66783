package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/pkg/geospatial"
	"github.com/souzafcharles/spatialdata/internal/pkg/metrics"
)

const (
	msgInvalidJSON = "Invalid JSON format or structure"
	msgInvalidID   = "Invalid parameter type for 'id'. Expected: integer"
	msgInternal    = "An internal error occurred"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// writeError maps a service error onto the API error body.
// Anything it does not recognise is logged and hidden behind a 500.
func writeError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case geospatial.IsStructural(err):
		metrics.GeometryRejections.WithLabelValues(rejectionReason(err)).Inc()
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, "Data integrity violation")
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusRequestTimeout, "timeout", "request timed out")
	case errors.As(err, &fe):
		return newError(c, fe.Code, codeForStatus(fe.Code), fe.Message)
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return errInternal(c, msgInternal)
	}
}

// errorStatus is the status writeError answers with for err.
func errorStatus(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case geospatial.IsStructural(err):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, geospatial.ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, geospatial.ErrInvalidPolygon):
		return "invalid_polygon"
	case errors.Is(err, geospatial.ErrMissingType):
		return "missing_type"
	case errors.Is(err, geospatial.ErrInvalidCoordinate):
		return "invalid_coordinate"
	case errors.Is(err, geospatial.ErrKindMismatch):
		return "kind_mismatch"
	case errors.Is(err, geospatial.ErrNoPolygon):
		return "no_polygon"
	default:
		return "malformed"
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusRequestTimeout:
		return "timeout"
	case fiber.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case fiber.StatusUnsupportedMediaType, fiber.StatusUnprocessableEntity:
		return "bad_request"
	case fiber.StatusTooManyRequests:
		return "rate_limited"
	case fiber.StatusServiceUnavailable:
		return "unavailable"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "error"
}

// ErrorHandler renders errors that escape handlers (unknown routes, body
// limit, timeouts, panics recovered upstream) in the APIError shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
