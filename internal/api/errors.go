package api

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"todo/internal/errors"
	"todo/internal/validation"
)

// statusFor maps an application error type to an HTTP status code.
func statusFor(errType errors.ErrorType) int {
	switch errType {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return fiber.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return fiber.StatusNotFound
	case errors.ErrorTypeConflict:
		return fiber.StatusConflict
	case errors.ErrorTypeTimeout:
		return fiber.StatusGatewayTimeout
	case errors.ErrorTypeUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every error returned by a handler as an ErrorResponse.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		code := "request_error"
		if fiberErr.Code == fiber.StatusNotFound {
			code = errors.ErrorTypeNotFound.String()
		}
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error:   code,
			Message: fiberErr.Message,
		})
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		s.logger.Error("unhandled request error", "path", c.Path(), "request_id", requestID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal",
			Code:    errors.GetErrorCode(err),
			Message: "An unexpected error occurred. Please try again.",
		})
	}

	if errors.ShouldLogError(err) {
		s.logger.Error("request failed", "path", c.Path(), "request_id", requestID(c), "error", err)
	}

	resp := ErrorResponse{
		Error:   appErr.Type.String(),
		Code:    errors.GetErrorCode(err),
		Message: errors.GetUserMessage(err),
	}

	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		resp.Message = validationErr.GetUserFriendlyMessage()
		resp.Fields = validationErr.Errors
	}

	return c.Status(statusFor(appErr.Type)).JSON(resp)
}
