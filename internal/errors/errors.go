// Package errors provides custom error types for calculation failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the class of a calculation failure.
type ErrorCode string

const (
	CodeInvalidInput         ErrorCode = "INVALID_INPUT"
	CodeCalculationFailed    ErrorCode = "CALCULATION_FAILED"
	CodeExpiredOption        ErrorCode = "EXPIRED_OPTION"
	CodeInvalidDate          ErrorCode = "INVALID_DATE"
	CodeDivisionByZero       ErrorCode = "DIVISION_BY_ZERO"
	CodeNumericalInstability ErrorCode = "NUMERICAL_INSTABILITY"
)

// Standard sentinel errors
var (
	ErrNoLegs            = errors.New("strategy has no option legs")
	ErrTooManyLegs       = errors.New("strategy has more than 8 legs")
	ErrDuplicateLegID    = errors.New("duplicate leg id")
	ErrNonConvergence    = errors.New("bisection did not converge")
	ErrNotFound          = errors.New("record not found")
	ErrDatabaseError     = errors.New("database error")
	ErrSourceUnavailable = errors.New("market data source unavailable")
)

// CalculationError represents a failure inside the calculation engine.
// Params carries the triggering numeric inputs for diagnostics.
type CalculationError struct {
	Code    ErrorCode
	Message string
	Params  map[string]float64
	Err     error
}

func (e *CalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calculation error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("calculation error [%s]: %s", e.Code, e.Message)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError creates a new CalculationError.
func NewCalculationError(code ErrorCode, message string, err error) *CalculationError {
	return &CalculationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewCalculationErrorWithParams creates a CalculationError carrying the
// numeric parameters that triggered the failure.
func NewCalculationErrorWithParams(code ErrorCode, message string, params map[string]float64) *CalculationError {
	return &CalculationError{
		Code:    code,
		Message: message,
		Params:  params,
	}
}

// NewInvalidInput creates an INVALID_INPUT error for a single field.
func NewInvalidInput(field, message string) *CalculationError {
	return &CalculationError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// AggregateValidation folds a set of field violations into one
// INVALID_INPUT error summarizing every problem.
func AggregateValidation(violations []string) *CalculationError {
	return &CalculationError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("%d validation error(s): %s", len(violations), strings.Join(violations, "; ")),
	}
}

// IsCode reports whether err is a CalculationError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var calcErr *CalculationError
	if errors.As(err, &calcErr) {
		return calcErr.Code == code
	}
	return false
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
