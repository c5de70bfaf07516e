package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies pipeline failures
type ErrorCategory string

const (
	// Fatal categories that stop the run
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryData          ErrorCategory = "DATA"

	// Explicit empty-result condition after warm-up and label shifting
	ErrorCategoryInsufficientData ErrorCategory = "INSUFFICIENT_DATA"

	// A metric was undefined due to a missing class; resolved by a
	// documented fallback value, never surfaced as a failure
	ErrorCategoryDegenerateMetric ErrorCategory = "DEGENERATE_METRIC"
)

// PipelineError is a categorized error with component/operation context.
// All errors are local to one pipeline run; there is no retry model because
// the core has no I/O once given in-memory data.
type PipelineError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *PipelineError) Unwrap() error {
	return e.Underlying
}

// IsFatal returns whether this error should abort the pipeline run
func (e *PipelineError) IsFatal() bool {
	switch e.Category {
	case ErrorCategoryValidation, ErrorCategoryConfiguration, ErrorCategoryData:
		return true
	default:
		return false
	}
}

// NewPipelineError creates a new categorized pipeline error
func NewPipelineError(category ErrorCategory, component, operation, message string) *PipelineError {
	return &PipelineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// WrapError wraps an existing error with pipeline context
func WrapError(err error, category ErrorCategory, component, operation string) *PipelineError {
	if err == nil {
		return nil
	}
	return &PipelineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// Common constructors

func NewValidationError(component, operation, message string) *PipelineError {
	return NewPipelineError(ErrorCategoryValidation, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *PipelineError {
	return NewPipelineError(ErrorCategoryConfiguration, component, operation, message)
}

func NewDataError(component, operation string, err error) *PipelineError {
	return WrapError(err, ErrorCategoryData, component, operation)
}

func NewInsufficientDataError(component, operation, message string) *PipelineError {
	return NewPipelineError(ErrorCategoryInsufficientData, component, operation, message)
}

// IsInsufficientData reports whether err is the explicit empty-result
// condition. Callers must check this before treating a run as successful.
func IsInsufficientData(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Category == ErrorCategoryInsufficientData
	}
	return false
}
