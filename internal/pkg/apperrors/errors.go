package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// State errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCapacityReached   = errors.New("capacity reached")
)

// ErrWeakPassword is still a validation failure
var ErrWeakPassword = NewCustomError(ErrValidationFailed, "password is too weak")

// User errors
var (
	ErrUserNotFound       = NewCustomError(ErrResourceNotFound, "user not found")
	ErrEmailAlreadyExists = NewCustomError(ErrResourceAlreadyExists, "email already exists")
	ErrAlumniNotFound     = NewCustomError(ErrResourceNotFound, "alumni not found")
	ErrStudentNotFound    = NewCustomError(ErrResourceNotFound, "student not found")
)

// Domain not-found errors
var (
	ErrSessionNotFound      = NewCustomError(ErrResourceNotFound, "mentorship session not found")
	ErrWebinarNotFound      = NewCustomError(ErrResourceNotFound, "webinar not found")
	ErrJobNotFound          = NewCustomError(ErrResourceNotFound, "job posting not found")
	ErrReferralNotFound     = NewCustomError(ErrResourceNotFound, "referral request not found")
	ErrPostNotFound         = NewCustomError(ErrResourceNotFound, "forum post not found")
	ErrReplyNotFound        = NewCustomError(ErrResourceNotFound, "forum reply not found")
	ErrDocumentNotFound     = NewCustomError(ErrResourceNotFound, "document not found")
	ErrEventNotFound        = NewCustomError(ErrResourceNotFound, "event not found")
	ErrNotificationNotFound = NewCustomError(ErrResourceNotFound, "notification not found")
)

// Duplicate membership errors
var (
	ErrAlreadyRegistered = NewCustomError(ErrResourceAlreadyExists, "already registered for this webinar")
	ErrAlreadyRSVPed     = NewCustomError(ErrResourceAlreadyExists, "already attending this event")
	ErrReferralExists    = NewCustomError(ErrResourceAlreadyExists, "referral already requested for this job")
	ErrFeedbackExists    = NewCustomError(ErrConflict, "feedback was already submitted")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error naming the offending field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewPasswordError rejects a password that does not meet the strength rules
func NewPasswordError(message string) error {
	return &CustomError{
		Err:     ErrWeakPassword,
		Message: message,
		Details: map[string]interface{}{"field": "password"},
	}
}

// NewTransitionError reports a status change that the state machine does not allow
func NewTransitionError(from, to string) error {
	return &CustomError{
		Err:     ErrInvalidTransition,
		Message: "cannot move from " + from + " to " + to,
		Details: map[string]interface{}{"from": from, "to": to},
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Message returns the user facing message of err when it carries one.
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}
