package sale

import (
	"errors"
	"fmt"

	"github.com/pos/backend/internal/domain/shared"
)

// ValidationError rejects a request before the store is touched.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ErrorCode returns the domain code
func (e *ValidationError) ErrorCode() string { return shared.ErrValidation.Code }

// Is matches shared.ErrValidation
func (e *ValidationError) Is(target error) bool { return target == shared.ErrValidation }

// InsufficientStockError reports the product whose stock could not cover
// the requested quantity. The commit that produced it changed nothing.
type InsufficientStockError struct {
	ProductID int64
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (requested %d)", e.ProductID, e.Requested)
}

// ErrorCode returns the domain code
func (e *InsufficientStockError) ErrorCode() string { return shared.ErrInsufficientStock.Code }

// Is matches shared.ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool { return target == shared.ErrInsufficientStock }

// PersistenceError wraps a store failure. Retryable is set for lock
// timeouts and transient connectivity failures; the caller may then retry
// the whole commit.
type PersistenceError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op + ": persistence failure"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrorCode returns the domain code
func (e *PersistenceError) ErrorCode() string { return shared.ErrPersistence.Code }

// Is matches shared.ErrPersistence
func (e *PersistenceError) Is(target error) bool { return target == shared.ErrPersistence }

// IsRetryable reports whether err is a PersistenceError marked retryable.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Retryable
}
