package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var _ context.Context = &Execution{}

// Execution is the context handed to a task for one item of a batch.
// It carries the node being run, the item index and the values exposed to
// parameter expressions.
type Execution struct {
	ID        string
	Node      *Node
	Container *Container
	Item      int
	values    map[string]any
	ctx       context.Context // real context carrying deadline/cancellation
}

// context.Context implementation delegates to the embedded ctx so that the
// host's cancellation reaches outbound calls made with exec as their context.

func (e *Execution) Deadline() (deadline time.Time, ok bool) {
	return e.ctx.Deadline()
}

func (e *Execution) Done() <-chan struct{} {
	return e.ctx.Done()
}

func (e *Execution) Err() error {
	return e.ctx.Err()
}

func (e *Execution) Value(key any) any {
	k, ok := key.(string)
	if !ok {
		return e.ctx.Value(key)
	}

	if v, found := e.values[k]; found {
		return v
	}
	return e.ctx.Value(key)
}

func (e *Execution) AddValue(k string, v any) {
	e.values[k] = v
}

// Values returns the expression environment for this execution.
func (e *Execution) Values() map[string]any {
	return e.values
}

func NewExecution(ctx context.Context, node *Node, container *Container, index int, item Item) *Execution {
	if ctx == nil {
		ctx = context.Background()
	}

	exec := &Execution{
		ID:        uuid.New().String(),
		Node:      node,
		Container: container,
		Item:      index,
		values:    make(map[string]any),
		ctx:       ctx,
	}

	json := item.JSON
	if json == nil {
		json = map[string]any{}
	}
	exec.AddValue("json", json)
	exec.AddValue("index", index)
	if node != nil {
		exec.AddValue("node", node.Name)
	}

	return exec
}
