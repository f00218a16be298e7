package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service. Handlers map them to HTTP statuses;
// services never leak more detail than the code itself carries.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeExpired          = "EXPIRED"
	CodePasswordRequired = "PASSWORD_REQUIRED"
	CodePasswordMismatch = "PASSWORD_MISMATCH"
	CodeConflict         = "CONFLICT"
	CodeDispatchFailed   = "DISPATCH_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidInput flags malformed caller-supplied data.
func NewInvalidInput(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewAccessDenied flags an authenticated actor lacking capability or tenant
// scope. The message stays generic so no cross-tenant detail escapes.
func NewAccessDenied() error {
	return NewDomainError(CodeAccessDenied, "access denied", http.StatusForbidden, nil)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewExpired flags a share token past its expiry. Public endpoints render
// this identically to NotFound.
func NewExpired() error {
	return NewDomainError(CodeExpired, "link expired", http.StatusNotFound, nil)
}

func NewPasswordRequired() error {
	return NewDomainError(CodePasswordRequired, "password required", http.StatusUnauthorized, nil)
}

func NewPasswordMismatch() error {
	return NewDomainError(CodePasswordMismatch, "password mismatch", http.StatusUnauthorized, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewDispatchError wraps an external delivery failure. It is logged and
// swallowed at the watcher boundary, never surfaced to a mutation caller.
func NewDispatchError(err error) error {
	return &DomainError{
		Code:       CodeDispatchFailed,
		Message:    "notification delivery failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}
