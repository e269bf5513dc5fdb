package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the role or scope for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState indicates a workflow transition attempted from the wrong state.
var ErrInvalidState = errors.New("invalid state transition")

// ErrAlreadyApproved is returned when approving a request that is already approved.
var ErrAlreadyApproved = fmt.Errorf("%w: access request already approved", ErrInvalidState)

// ErrNotApproved indicates the user has not been approved by an administrator yet.
var ErrNotApproved = errors.New("user account is not approved yet")

// ErrRateLimited indicates the caller exceeded the allowed number of attempts for the window.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrInvalidOrExpiredCode is deliberately uninformative: it covers wrong, used and expired codes.
var ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

// ErrFutureDate indicates a report dated after today.
var ErrFutureDate = fmt.Errorf("%w: date cannot be in the future", ErrValidation)

// ErrCycleDetected indicates a parent chain that loops back on itself.
var ErrCycleDetected = errors.New("unit hierarchy cycle detected")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", ErrUnauthorized)

// AppError carries an infrastructure failure together with a status-like code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
