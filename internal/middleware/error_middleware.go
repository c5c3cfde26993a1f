package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/auth"
	"github.com/yigit/alumniconnect/internal/pkg/dberrors"
	"github.com/yigit/alumniconnect/internal/pkg/logger"
	"github.com/yigit/alumniconnect/internal/pkg/validation"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// First match wins, so wrapped sentinels must come before their generic parents.
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Invalid status transition"},
	{apperrors.ErrCapacityReached, http.StatusConflict, dto.ErrorCodeCapacityReached, "Capacity reached"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrWeakPassword, http.StatusBadRequest, dto.ErrorCodeWeakPassword, "Password is too weak"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{auth.ErrExpiredToken, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if msg, ok := apperrors.Message(err); ok {
			message = msg
		}
		errorDetail := dto.NewErrorDetail(m.code, message)

		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			if field, ok := ce.Details["field"].(string); ok {
				errorDetail.WithField(field)
			} else {
				errorDetail.WithDetails(ce.Details)
			}
		}
		c.JSON(m.status, dto.NewErrorResponse(errorDetail))
		return
	}

	if dberrors.IsPostgresError(err) {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Database error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error"),
		))
		return
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}

// HandleBindError answers a request whose body or query failed to bind
func HandleBindError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request")
	if verrs := validation.Describe(err); verrs != nil {
		errorDetail.WithDetails(verrs.Errors)
		if len(verrs.Errors) == 1 {
			errorDetail.WithField(verrs.Errors[0].Field)
		}
	} else {
		errorDetail.WithDetails(err.Error())
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
