package runtime

import (
	"errors"
	"fmt"
)

// NodeError is returned when a batch stops early: an item failed and the
// node does not continue on failure. Item is the zero-based index of the
// failing item.
type NodeError struct {
	Node string
	Item int
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s failed at item %d: %v", e.Node, e.Item, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Type is the failing task's error type, permanent unless the task said otherwise.
func (e *NodeError) Type() ErrorType {
	var taskErr *TaskError
	if errors.As(e.Err, &taskErr) {
		return taskErr.GetType()
	}
	return ErrorTypePermanent
}

// ToMap converts the error to a JSON-ready map for HTTP responses.
func (e *NodeError) ToMap() map[string]any {
	m := map[string]any{
		"node":    e.Node,
		"item":    e.Item,
		"type":    string(e.Type()),
		"message": e.Err.Error(),
	}

	var taskErr *TaskError
	if errors.As(e.Err, &taskErr) {
		if status, ok := taskErr.Metadata["status_code"]; ok {
			m["status_code"] = status
		}
	}

	var paramErr *ParameterError
	if errors.As(e.Err, &paramErr) && paramErr.Field != "" {
		m["parameter"] = paramErr.Field
	}

	return m
}
