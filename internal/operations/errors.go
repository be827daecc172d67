package operations

import "fmt"

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeExecution ErrorType = "execution"
	ErrorTypeNotFound  ErrorType = "not_found"
)

// OperationError represents an operation-specific error
type OperationError struct {
	Type    ErrorType `json:"type"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Step != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewExecutionError wraps the error a Step returned
func NewExecutionError(step string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// NewNotFoundError reports an unknown step id
func NewNotFoundError(step string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeNotFound,
		Step:    step,
		Message: "step not registered",
	}
}
