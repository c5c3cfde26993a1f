package dto

import "time"

// ErrorCode is the machine readable code of a failed request
type ErrorCode string

const (
	// Authentication
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeWeakPassword       ErrorCode = "AUTH_003"
	ErrorCodeAccountDisabled    ErrorCode = "AUTH_004"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeTokenNotFound      ErrorCode = "AUTH_007"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resources and state
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_004"
	ErrorCodeInvalidTransition     ErrorCode = "RES_005"
	ErrorCodeCapacityReached       ErrorCode = "RES_006"

	// Request validation
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeBadRequest       ErrorCode = "VAL_002"

	// Server
	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeDatabaseError  ErrorCode = "SRV_002"
)

// ErrorDetail describes why a request failed
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"AUTH_001"`
	Message string      `json:"message" example:"Invalid credentials"`
	Field   string      `json:"field,omitempty" example:"email"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message}
}

// WithField names the offending request field
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// ValidationErrors collects per-field binding failures
type ValidationErrors struct {
	Errors []ErrorDetail `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]ErrorDetail, 0)}
}

// AddError appends a failure for field
func (v *ValidationErrors) AddError(field, message string) *ValidationErrors {
	v.Errors = append(v.Errors, ErrorDetail{
		Code:    ErrorCodeValidationFailed,
		Message: message,
		Field:   field,
	})
	return v
}
