package plugin

import "github.com/sflowg/signaliz/runtime"

// Input is the argument map of a map-based task: the node parameters after
// expression resolution for the current item.
type Input = map[string]any

// Output is the result of a task. It becomes the item's json in the node
// output, correlated with the input item by index.
type Output = map[string]any

// TaskError carries a task failure plus metadata for whoever consumes the
// result:
//
//	return nil, plugin.NewTaskError(err).
//	    WithType(plugin.ErrorTypeTransient).
//	    WithMetadata("status_code", 503).
//	    WithRetryHint(true)
//
// Hints are informational. Nothing in the host retries.
type TaskError = runtime.TaskError

// ErrorType classifies a TaskError.
type ErrorType = runtime.ErrorType

const (
	ErrorTypeTransient = runtime.ErrorTypeTransient
	ErrorTypePermanent = runtime.ErrorTypePermanent
)

// NewTaskError wraps err with an empty metadata set.
func NewTaskError(err error) *TaskError {
	return runtime.NewTaskError(err)
}
