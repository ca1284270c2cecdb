package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorType classifies a task failure. Nothing in the runtime retries; the
// type is reported so operators and downstream nodes can decide.
type ErrorType string

const (
	// ErrorTypeTransient signals the call may succeed if repeated later.
	ErrorTypeTransient ErrorType = "transient"
	// ErrorTypePermanent signals repeating the call will fail the same way.
	ErrorTypePermanent ErrorType = "permanent"
)

// TaskError wraps task execution errors with metadata
// Allows plugins to return execution metadata alongside errors for:
// - Error categorization (type: transient, permanent)
// - Upstream details (status_code)
// - Retry hints for whoever consumes the result (retryable)
type TaskError struct {
	Err      error          // The underlying error
	Metadata map[string]any // Execution metadata (status codes, retry hints, etc.)
}

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "task failed"
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError creates a new task error with the given underlying error
func NewTaskError(err error) *TaskError {
	return &TaskError{
		Err:      err,
		Metadata: make(map[string]any),
	}
}

// WithMetadata adds metadata to the error
func (e *TaskError) WithMetadata(key string, value any) *TaskError {
	e.Metadata[key] = value
	return e
}

// WithRetryHint marks whether repeating the call could succeed
func (e *TaskError) WithRetryHint(retryable bool) *TaskError {
	e.Metadata["retryable"] = retryable
	return e
}

// WithType sets the error type
func (e *TaskError) WithType(errorType ErrorType) *TaskError {
	e.Metadata["type"] = errorType
	return e
}

// IsRetryable checks if the error is marked as retryable
func (e *TaskError) IsRetryable() bool {
	retryable, _ := e.Metadata["retryable"].(bool)
	return retryable
}

// GetType returns the error type, permanent when unset
func (e *TaskError) GetType() ErrorType {
	if errorType, ok := e.Metadata["type"].(ErrorType); ok {
		return errorType
	}
	return ErrorTypePermanent
}

// ParameterError reports task input rejected by the host before the plugin
// method ran: a required parameter missing, a value of the wrong shape.
type ParameterError struct {
	Task  string
	Field string // json name of the offending parameter, when known
	Rule  string // validation rule that failed, when known
	Err   error
}

func (e *ParameterError) Error() string {
	switch {
	case e.Field != "" && e.Rule == "required":
		return fmt.Sprintf("%s: missing required parameter '%s'", e.Task, e.Field)
	case e.Field != "":
		return fmt.Sprintf("%s: parameter '%s' failed validation (rule: %s)", e.Task, e.Field, e.Rule)
	default:
		return fmt.Sprintf("%s: invalid parameters: %v", e.Task, e.Err)
	}
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// newParameterError reports the first failed field of a validator error.
func newParameterError(task string, err error) *ParameterError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &ParameterError{Task: task, Err: err}
	}

	fieldErr := validationErrors[0]
	rule := fieldErr.Tag()
	if strings.HasPrefix(rule, "required") {
		rule = "required"
	}

	return &ParameterError{
		Task:  task,
		Field: fieldPath(fieldErr.Namespace()),
		Rule:  rule,
		Err:   err,
	}
}

// fieldPath drops the struct type name the validator puts first in a namespace.
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}
