package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/logger"
)

// apiError describes how an error kind is rendered
type apiError struct {
	status  int
	code    dto.ErrorCode
	message string
}

// classify maps an error chain to its HTTP status, code and default message
func classify(err error) apiError {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, apperrors.ErrPayloadTooLarge), errors.As(err, &maxBytes):
		return apiError{http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "Request body is too large."}
	case errors.Is(err, apperrors.ErrValidationFailed):
		return apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed."}
	case errors.Is(err, apperrors.ErrConflict):
		return apiError{http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Resource already exists."}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found."}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password."}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired."}
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token has been revoked."}
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token."}
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found."}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required."}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{http.StatusServiceUnavailable, dto.ErrorCodeTimeout, "Request timed out."}
	case errors.Is(err, apperrors.ErrStorage):
		return apiError{http.StatusInternalServerError, dto.ErrorCodeStorageError, "File storage error."}
	case errors.Is(err, apperrors.ErrDatabase):
		return apiError{http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Database error."}
	default:
		return apiError{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error."}
	}
}

// HandleAPIError writes the JSON error response for err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	kind := classify(err)
	detail := dto.NewErrorDetail(kind.code, kind.message)

	if ce, ok := apperrors.AsCustom(err); ok {
		detail.Message = ce.Error()
		detail.Field = ce.Field
		if ce.Details != nil {
			detail.WithDetails(ce.Details)
		}
	}

	if kind.status >= http.StatusInternalServerError {
		detail.WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", kind.status).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(kind.status, dto.NewErrorResponse(detail))
}

// Recovery turns panics into a 500 error response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		HandleAPIError(c, errors.New("panic"))
	})
}

// NoRoute renders unknown routes with the standard error shape
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found."))
	}
}
