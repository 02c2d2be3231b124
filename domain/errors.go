package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"

	// Tree-specific classifications surfaced by item mutations.
	ErrCodeCycle     ErrorCode = "CYCLE_DETECTED"
	ErrCodeMaxDepth  ErrorCode = "MAX_DEPTH_EXCEEDED"
	ErrCodeCrossList ErrorCode = "CROSS_LIST_PARENT"
	ErrCodeRootOnly  ErrorCode = "ROOT_ONLY_MOVE"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound    = NewError(ErrCodeNotFound, "user not found")
	ErrListNotFound    = NewError(ErrCodeNotFound, "list not found")
	ErrItemNotFound    = NewError(ErrCodeNotFound, "item not found")
	ErrParentNotFound  = NewError(ErrCodeNotFound, "parent item not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrForbidden       = NewError(ErrCodeForbidden, "actor does not own the resource")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")

	ErrCycleDetected    = NewError(ErrCodeCycle, "item cannot become a child of its own descendant")
	ErrMaxDepthExceeded = NewError(ErrCodeMaxDepth, "maximum nesting depth exceeded")
	ErrCrossListParent  = NewError(ErrCodeCrossList, "parent item belongs to a different list")
	ErrRootOnlyMove     = NewError(ErrCodeRootOnly, "only root items can move between lists")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
