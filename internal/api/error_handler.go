package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// always one of the closed domain.ErrorCode set.
type errorResponse struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors deterministically to the closed error-code set.
//   - Logs expected auth/validation failures at low severity, unexpected and
//     transient failures at high severity with full internal detail.
//   - Never leaks internal error text for unclassified failures.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := domain.CodeValidationError
		if he.Code >= http.StatusInternalServerError {
			code = domain.CodeInternalError
		}
		return he.Code, errorResponse{Code: code, Message: fmt.Sprintf("%v", he.Message)}
	}

	// Expected failures: deterministic mapping, low-severity log.
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		logExpected(log, c, err)
		return http.StatusUnauthorized, errorResponse{Code: domain.CodeAuthenticationFailed, Message: "Token expired. Please log in again."}
	case errors.Is(err, domain.ErrTokenInvalid):
		logExpected(log, c, err)
		return http.StatusUnauthorized, errorResponse{Code: domain.CodeAuthenticationFailed, Message: "Invalid token."}
	case errors.Is(err, domain.ErrAuthenticationRequired),
		errors.Is(err, domain.ErrAuthenticationFailed):
		logExpected(log, c, err)
		return http.StatusUnauthorized, errorResponse{Code: domain.CodeAuthenticationFailed, Message: "Authentication failed. Please try again."}
	case errors.Is(err, domain.ErrInvalidCredentials):
		logExpected(log, c, err)
		return http.StatusUnauthorized, errorResponse{Code: domain.CodeInvalidCredential, Message: "Invalid username or password."}
	case errors.Is(err, domain.ErrAccessDenied):
		logExpected(log, c, err)
		return http.StatusForbidden, errorResponse{Code: domain.CodeAccessDenied, Message: "You do not have permission to perform this action."}
	case errors.Is(err, domain.ErrNotFound):
		logExpected(log, c, err)
		return http.StatusNotFound, errorResponse{Code: domain.CodeEntityNotFound, Message: "The requested resource was not found."}
	case errors.Is(err, domain.ErrDuplicateEntity):
		logExpected(log, c, err)
		return http.StatusConflict, errorResponse{Code: domain.CodeDuplicateEntity, Message: "The resource already exists."}
	case errors.Is(err, domain.ErrVersionConflict):
		logExpected(log, c, err)
		return http.StatusConflict, errorResponse{Code: domain.CodeDuplicateEntity, Message: "The resource was modified concurrently. Please retry."}
	case errors.Is(err, domain.ErrValidation):
		logExpected(log, c, err)
		return http.StatusBadRequest, errorResponse{Code: domain.CodeValidationError, Message: err.Error()}
	}

	// Retries exhausted: full detail server-side, generic message out.
	if errors.Is(err, domain.ErrBackendUnavailable) {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend unavailable")
		return http.StatusServiceUnavailable, errorResponse{
			Code:    domain.CodeTransientBackend,
			Message: "Service temporarily unavailable. Please try again later.",
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, errorResponse{
		Code:    domain.CodeInternalError,
		Message: "An unknown error occurred.",
	}
}

func logExpected(log zerolog.Logger, c echo.Context, err error) {
	log.Info().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request rejected")
}
