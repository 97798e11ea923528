package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

type errorMapping struct {
	category error
	status   int
	code     dto.ErrorCode
	fallback string
}

// Checked in order; the token errors must come before the generic categories.
var errorMappings = []errorMapping{
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authorization required"},
	{apperrors.ErrForbidden, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrValidation, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests, please try again later"},
}

// ResolveError maps an error to its HTTP status and body
func ResolveError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.category) {
			continue
		}
		msg := m.fallback
		// Token errors always use the fixed wording
		if m.category != apperrors.ErrTokenExpired && m.category != apperrors.ErrTokenInvalid {
			if custom, ok := apperrors.Message(err); ok {
				msg = custom
			}
		}
		return m.status, dto.NewErrorResponse(m.code, msg)
	}
	return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error")
}

// HandleAPIError writes the error response for err. Unexpected errors are
// logged and hidden behind a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, body := ResolveError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
	}
	c.JSON(status, body)
}

func abortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}
