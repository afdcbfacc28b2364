package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrValidation
	ErrIntegrity
	ErrStorageIO
	ErrDeviceScheduling
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

// Validation reports a malformed input rejected at construction time.
func Validation(field, constraint string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("invalid %s: expected %s", field, constraint),
	}
}

// Integrity reports stored data failing its checksum check.
func Integrity(message string) *AppError {
	return &AppError{
		Code:    ErrIntegrity,
		Message: message,
	}
}

// StorageIO reports a storage read or write failure. Distinct from
// Integrity: callers retry these instead of rebuilding.
func StorageIO(op string, err error) *AppError {
	return &AppError{
		Code:    ErrStorageIO,
		Message: fmt.Sprintf("storage %s failed", op),
		Err:     err,
	}
}

// DeviceScheduling reports the device notification scheduler refusing
// a schedule or cancel call.
func DeviceScheduling(op string, id int32, err error) *AppError {
	return &AppError{
		Code:    ErrDeviceScheduling,
		Message: fmt.Sprintf("device %s failed for notification %d", op, id),
		Err:     err,
	}
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
