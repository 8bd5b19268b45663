package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnbalanced indicates that an entry's debits and credits do not balance.
var ErrUnbalanced = errors.New("entry debits and credits do not balance")

// ErrInvalidTransition indicates that an operation is not legal from the
// entry's current status, or that a concurrent writer won the race.
var ErrInvalidTransition = errors.New("operation not allowed from current status")

// ErrEscalationLimitExceeded indicates an approval request was delegated past
// the configured maximum depth.
var ErrEscalationLimitExceeded = errors.New("approval delegation limit exceeded")

// ErrForbidden indicates that the actor is not authorized for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvariant indicates a programmer error such as a missing required
// identifier. These are never user-correctable.
var ErrInvariant = errors.New("invariant violation")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is in a state that conflicts with the request.
var ErrConflict = errors.New("resource state conflict")

// AppError wraps storage-layer and other unrecoverable failures with an HTTP-ish code.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// UnbalancedError carries the computed debit/credit difference so callers can
// display it. Matches ErrUnbalanced via errors.Is.
type UnbalancedError struct {
	Difference decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("entry debits and credits do not balance: difference %s", e.Difference.String())
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}

// NewUnbalancedError creates an UnbalancedError for the given difference
// (total debits minus total credits).
func NewUnbalancedError(difference decimal.Decimal) *UnbalancedError {
	return &UnbalancedError{Difference: difference}
}

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-scoped failures in check order. Matches
// ErrValidation via errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation error: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError from accumulated field failures.
func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
