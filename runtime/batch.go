package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// BatchExecutor runs a node over a batch of items.
// Items are processed strictly in order, one task call at a time; output
// order always matches input order.
type BatchExecutor struct {
	l         *slog.Logger
	container *Container
	evaluator *ExpressionEvaluator
}

func NewBatchExecutor(l *slog.Logger, container *Container, evaluator *ExpressionEvaluator) *BatchExecutor {
	if l == nil {
		l = slog.Default()
	}
	if evaluator == nil {
		evaluator = NewExpressionEvaluator()
	}
	return &BatchExecutor{
		l:         l,
		container: container,
		evaluator: evaluator,
	}
}

// Execute runs node once per item. The task is resolved once for the whole
// batch. A failing item either becomes an {"error": message} record (when
// the node continues on failure) or stops the batch with a *NodeError; in
// the latter case the results collected so far are returned alongside it.
func (b *BatchExecutor) Execute(ctx context.Context, node *Node, items []Item) ([]ItemResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	taskName := node.TaskName()
	task := b.container.GetTask(taskName)
	if task == nil {
		return nil, fmt.Errorf("node %s: unknown task %s", node.Name, taskName)
	}

	b.l.InfoContext(ctx, "Executing node",
		"node", node.Name,
		"task", taskName,
		"items", len(items),
		"continue_on_fail", node.ContinueOnFail)

	results := make([]ItemResult, 0, len(items))

	for i, item := range items {
		// Run cancellation is the host's; stop before starting another call.
		if err := ctx.Err(); err != nil {
			return results, &NodeError{Node: node.Name, Item: i, Err: err}
		}

		exec := NewExecution(ctx, node, b.container, i, item)

		output, err := b.executeItem(exec, task)
		if err != nil {
			if node.ContinueOnFail {
				b.l.WarnContext(exec, "Item failed, continuing",
					"node", node.Name,
					"item", i,
					"execution", exec.ID,
					"error", err.Error())
				results = append(results, ItemResult{
					JSON:       map[string]any{"error": err.Error()},
					PairedItem: PairedItem{Item: i},
					Err:        err,
				})
				continue
			}

			b.l.ErrorContext(exec, "Item failed, aborting batch",
				"node", node.Name,
				"item", i,
				"execution", exec.ID,
				"error", err.Error())
			return results, &NodeError{Node: node.Name, Item: i, Err: err}
		}

		if output == nil {
			output = map[string]any{}
		}
		results = append(results, ItemResult{
			JSON:       output,
			PairedItem: PairedItem{Item: i},
		})
	}

	return results, nil
}

func (b *BatchExecutor) executeItem(exec *Execution, task Task) (map[string]any, error) {
	args, err := b.evaluator.ResolveParameters(exec.Node.Parameters, exec.Values())
	if err != nil {
		return nil, &ParameterError{Task: exec.Node.TaskName(), Err: err}
	}

	if exec.Node.Operation != "" {
		if _, set := args["operation"]; !set {
			args["operation"] = exec.Node.Operation
		}
	}

	output, err := task.Execute(exec, args)
	if err != nil {
		var paramErr *ParameterError
		if errors.As(err, &paramErr) {
			b.l.DebugContext(exec, "Parameter validation failed",
				"task", paramErr.Task,
				"parameter", paramErr.Field,
				"rule", paramErr.Rule)
		}
		return nil, err
	}
	return output, nil
}
