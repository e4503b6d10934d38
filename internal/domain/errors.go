package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Domain Error Types
// ============================================================================

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ============================================================================
// Common Domain Errors
// ============================================================================

var (
	// Auth Errors
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
	}
	ErrInvalidOTP = &DomainError{
		Code:    "INVALID_OTP",
		Message: "invalid one-time password",
	}
	ErrResetEmailMissing = &DomainError{
		Code:    "RESET_EMAIL_MISSING",
		Message: "no pending password reset",
	}
	ErrTokenMissing = &DomainError{
		Code:    "TOKEN_MISSING",
		Message: "no account token",
	}

	// Validation Errors
	ErrValidationFailed = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
	}
	ErrRequiredFieldMissing = &DomainError{
		Code:    "REQUIRED_FIELD_MISSING",
		Message: "required field is missing",
	}

	// Infrastructure Errors
	ErrUpstreamUnavailable = &DomainError{
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: "account API unavailable",
	}
	ErrUpstreamRejected = &DomainError{
		Code:    "UPSTREAM_REJECTED",
		Message: "account API rejected the request",
	}
	ErrDatabaseOperation = &DomainError{
		Code:    "DATABASE_OPERATION_FAILED",
		Message: "database operation failed",
	}
)

// ============================================================================
// Error Wrapping Helpers
// ============================================================================

// WrapValidationError wraps an error as a validation error for a field
func WrapValidationError(field string, cause error) error {
	msg := fmt.Sprintf("validation failed for %s", field)
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause.Error())
	}
	return &DomainError{
		Code:    ErrValidationFailed.Code,
		Message: msg,
		Cause:   cause,
	}
}

// WrapUpstreamUnavailable wraps a transport failure talking to the account API
func WrapUpstreamUnavailable(operation string, cause error) error {
	return &DomainError{
		Code:    ErrUpstreamUnavailable.Code,
		Message: fmt.Sprintf("account API unavailable: %s", operation),
		Cause:   cause,
	}
}

// WrapDatabaseOperation wraps an error as a database operation failure
func WrapDatabaseOperation(operation string, cause error) error {
	return &DomainError{
		Code:    ErrDatabaseOperation.Code,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Cause:   cause,
	}
}

// ============================================================================
// Error Checking Helpers
// ============================================================================

func hasCode(err error, codes ...string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		for _, code := range codes {
			if domainErr.Code == code {
				return true
			}
		}
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasCode(err, ErrValidationFailed.Code, ErrRequiredFieldMissing.Code, ErrInvalidOTP.Code)
}

// IsAuthError checks if an error means the user must re-authenticate or restart a flow
func IsAuthError(err error) bool {
	return hasCode(err, ErrInvalidCredentials.Code, ErrTokenMissing.Code, ErrResetEmailMissing.Code)
}

// IsInfrastructureError checks if an error is an infrastructure error
func IsInfrastructureError(err error) bool {
	return hasCode(err, ErrUpstreamUnavailable.Code, ErrDatabaseOperation.Code)
}
