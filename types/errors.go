package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the stable machine readable code returned to clients.
type ErrorKind string

const (
	KindValidation               ErrorKind = "VALIDATION_ERROR"
	KindNotFound                 ErrorKind = "NOT_FOUND"
	KindInvalidTransition        ErrorKind = "INVALID_TRANSITION"
	KindZoneMismatch             ErrorKind = "ZONE_MISMATCH"
	KindCapacityExceeded         ErrorKind = "CAPACITY_EXCEEDED"
	KindNoAvailableQuantity      ErrorKind = "NO_AVAILABLE_QUANTITY"
	KindQuantityExceedsAvailable ErrorKind = "QUANTITY_EXCEEDS_AVAILABLE"
	KindStoreFailure             ErrorKind = "STORE_FAILURE"
)

// AppError is the error type every ledger and workflow operation returns.
// Err is kept for logging only and never rendered to the client.
type AppError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to a response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition:
		return http.StatusConflict
	case KindZoneMismatch, KindCapacityExceeded, KindNoAvailableQuantity, KindQuantityExceedsAvailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *AppError {
	return newError(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *AppError {
	return newError(KindNotFound, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *AppError {
	return newError(KindInvalidTransition, format, args...)
}

func ZoneMismatch(format string, args ...interface{}) *AppError {
	return newError(KindZoneMismatch, format, args...)
}

func CapacityExceeded(format string, args ...interface{}) *AppError {
	return newError(KindCapacityExceeded, format, args...)
}

func NoAvailableQuantity(format string, args ...interface{}) *AppError {
	return newError(KindNoAvailableQuantity, format, args...)
}

func QuantityExceedsAvailable(format string, args ...interface{}) *AppError {
	return newError(KindQuantityExceedsAvailable, format, args...)
}

// StoreFailure wraps a persistence error behind a generic detail.
func StoreFailure(err error) *AppError {
	return &AppError{Kind: KindStoreFailure, Detail: "internal storage error", Err: err}
}

// KindOf returns the kind of an AppError anywhere in the chain, or
// STORE_FAILURE for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStoreFailure
}

// AsAppError passes AppErrors through and wraps anything else as a store failure.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return StoreFailure(err)
}
