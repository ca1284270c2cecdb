package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// echoPlugin stands in for a remote-calling plugin. It records every call
// so tests can check ordering and how many calls were made.
type echoPlugin struct {
	calls []string
}

type echoInput struct {
	CompanyName string `json:"companyName" validate:"required"`
	Operation   string `json:"operation"`
	Fail        bool   `json:"fail"`
}

func (p *echoPlugin) Echo(exec *Execution, input echoInput) (map[string]any, error) {
	p.calls = append(p.calls, input.CompanyName)
	if input.Fail {
		return nil, NewTaskError(fmt.Errorf("upstream rejected %s", input.CompanyName)).
			WithType(ErrorTypePermanent).
			WithMetadata("status_code", 400)
	}
	return map[string]any{
		"company":   input.CompanyName,
		"operation": input.Operation,
		"item":      exec.Item,
	}, nil
}

func (p *echoPlugin) Nothing(exec *Execution, args map[string]any) (map[string]any, error) {
	return nil, nil
}

func newBatchFixture(t *testing.T) (*BatchExecutor, *echoPlugin, *bytes.Buffer) {
	t.Helper()

	container := NewContainer()
	plugin := &echoPlugin{}
	if err := container.RegisterPlugin("fake", plugin); err != nil {
		t.Fatalf("RegisterPlugin failed: %v", err)
	}

	var logs bytes.Buffer
	l := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewBatchExecutor(l, container, nil), plugin, &logs
}

func echoNode(continueOnFail bool) *Node {
	return &Node{
		Name:           "echo",
		Plugin:         "fake",
		Resource:       "echo",
		ContinueOnFail: continueOnFail,
		Parameters: map[string]any{
			"companyName": "${ json.company }",
			"fail":        "${ json.fail ?? false }",
		},
	}
}

func companies(names ...string) []Item {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{JSON: map[string]any{"company": name}}
	}
	return items
}

func TestBatchExecutor_AllSucceed(t *testing.T) {
	executor, plugin, _ := newBatchFixture(t)

	results, err := executor.Execute(context.Background(), echoNode(false), companies("A", "B", "C"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"A", "B", "C"} {
		if results[i].JSON["company"] != want {
			t.Errorf("result %d: expected company %s, got %v", i, want, results[i].JSON["company"])
		}
		if results[i].PairedItem.Item != i {
			t.Errorf("result %d: expected pairedItem %d, got %d", i, i, results[i].PairedItem.Item)
		}
		if results[i].IsError() {
			t.Errorf("result %d: unexpected error record", i)
		}
	}
	if strings.Join(plugin.calls, "") != "ABC" {
		t.Errorf("Expected sequential calls A,B,C, got %v", plugin.calls)
	}
}

func TestBatchExecutor_ContinueOnFail(t *testing.T) {
	executor, plugin, logs := newBatchFixture(t)

	items := companies("A", "B", "C", "D")
	items[2].JSON["fail"] = true

	results, err := executor.Execute(context.Background(), echoNode(true), items)
	if err != nil {
		t.Fatalf("Execute should not fail when continuing on failure: %v", err)
	}

	if len(results) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(results))
	}

	errorRecords := 0
	for i, r := range results {
		if r.PairedItem.Item != i {
			t.Errorf("result %d: pairedItem %d, order not preserved", i, r.PairedItem.Item)
		}
		if r.IsError() {
			errorRecords++
		}
	}
	if errorRecords != 1 {
		t.Fatalf("Expected exactly one error record, got %d", errorRecords)
	}

	failed := results[2]
	if !failed.IsError() {
		t.Fatal("Expected the error record at index 2")
	}
	if failed.JSON["error"] != "upstream rejected C" {
		t.Errorf("Expected error message in record, got %v", failed.JSON)
	}
	if len(failed.JSON) != 1 {
		t.Errorf("Error record should only carry the message, got %v", failed.JSON)
	}
	if results[3].JSON["company"] != "D" {
		t.Error("Items after the failure should still run")
	}
	if len(plugin.calls) != 4 {
		t.Errorf("Expected 4 calls, got %d", len(plugin.calls))
	}
	if !strings.Contains(logs.String(), "Item failed, continuing") {
		t.Error("Expected a warning log for the failed item")
	}
}

func TestBatchExecutor_AbortOnFirstFailure(t *testing.T) {
	executor, plugin, _ := newBatchFixture(t)

	items := companies("A", "B", "C")
	items[0].JSON["fail"] = true

	results, err := executor.Execute(context.Background(), echoNode(false), items)
	if err == nil {
		t.Fatal("Expected batch to abort")
	}

	if len(results) != 0 {
		t.Errorf("Expected 0 outputs after first item failed, got %d", len(results))
	}
	if len(plugin.calls) != 1 {
		t.Errorf("Expected processing to stop after 1 call, got %d", len(plugin.calls))
	}

	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("Expected *NodeError, got %T", err)
	}
	if nodeErr.Node != "echo" || nodeErr.Item != 0 {
		t.Errorf("Unexpected NodeError location: %+v", nodeErr)
	}

	var taskErr *TaskError
	if !errors.As(err, &taskErr) || taskErr.Metadata["status_code"] != 400 {
		t.Errorf("Expected the task error to be preserved, got %v", err)
	}
}

func TestBatchExecutor_AbortKeepsEarlierResults(t *testing.T) {
	executor, _, _ := newBatchFixture(t)

	items := companies("A", "B", "C")
	items[1].JSON["fail"] = true

	results, err := executor.Execute(context.Background(), echoNode(false), items)

	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) || nodeErr.Item != 1 {
		t.Fatalf("Expected NodeError at item 1, got %v", err)
	}
	if len(results) != 1 || results[0].JSON["company"] != "A" {
		t.Errorf("Expected the first result to be returned, got %v", results)
	}
}

func TestBatchExecutor_ParameterErrorPerItem(t *testing.T) {
	executor, plugin, _ := newBatchFixture(t)

	items := companies("A", "", "C")

	results, err := executor.Execute(context.Background(), echoNode(true), items)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !results[1].IsError() {
		t.Fatal("Expected missing required parameter to produce an error record")
	}
	if results[1].JSON["error"] != "fake.echo: missing required parameter 'companyName'" {
		t.Errorf("Unexpected error record: %v", results[1].JSON)
	}

	var paramErr *ParameterError
	if !errors.As(results[1].Err, &paramErr) {
		t.Errorf("Expected ParameterError, got %T", results[1].Err)
	}
	if len(plugin.calls) != 2 {
		t.Errorf("Plugin must not be called for the invalid item, got %d calls", len(plugin.calls))
	}
}

func TestBatchExecutor_ExpressionError(t *testing.T) {
	executor, _, _ := newBatchFixture(t)

	node := echoNode(false)
	node.Parameters["companyName"] = "${ json.company + }"

	_, err := executor.Execute(context.Background(), node, companies("A"))

	var paramErr *ParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("Expected ParameterError for a broken expression, got %v", err)
	}
}

func TestBatchExecutor_UnknownTask(t *testing.T) {
	executor, plugin, _ := newBatchFixture(t)

	node := &Node{Name: "bad", Plugin: "fake", Resource: "missing"}
	results, err := executor.Execute(context.Background(), node, companies("A"))

	if err == nil || !strings.Contains(err.Error(), "unknown task fake.missing") {
		t.Fatalf("Expected unknown task error, got %v", err)
	}
	if results != nil {
		t.Errorf("Expected no results, got %v", results)
	}
	if len(plugin.calls) != 0 {
		t.Error("No item should run for an unknown task")
	}
}

func TestBatchExecutor_Cancellation(t *testing.T) {
	executor, plugin, _ := newBatchFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := executor.Execute(ctx, echoNode(true), companies("A", "B"))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) || nodeErr.Item != 0 {
		t.Errorf("Expected NodeError at item 0, got %v", err)
	}
	if len(results) != 0 || len(plugin.calls) != 0 {
		t.Error("No item should run once the run is cancelled")
	}
}

func TestBatchExecutor_OperationInjection(t *testing.T) {
	executor, _, _ := newBatchFixture(t)

	node := echoNode(false)
	node.Operation = "singleCompany"

	results, err := executor.Execute(context.Background(), node, companies("A"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if results[0].JSON["operation"] != "singleCompany" {
		t.Errorf("Expected node operation to reach the task, got %v", results[0].JSON["operation"])
	}

	// An explicit parameter wins over the node's operation
	node.Parameters["operation"] = "bulkDiscovery"
	results, err = executor.Execute(context.Background(), node, companies("A"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if results[0].JSON["operation"] != "bulkDiscovery" {
		t.Errorf("Expected explicit operation parameter, got %v", results[0].JSON["operation"])
	}
}

func TestBatchExecutor_NilOutputBecomesEmptyObject(t *testing.T) {
	executor, _, _ := newBatchFixture(t)

	node := &Node{Name: "nothing", Plugin: "fake", Resource: "nothing"}
	results, err := executor.Execute(context.Background(), node, []Item{{}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if results[0].JSON == nil || len(results[0].JSON) != 0 {
		t.Errorf("Expected empty object output, got %v", results[0].JSON)
	}
}

func TestBatchExecutor_EmptyBatch(t *testing.T) {
	executor, _, _ := newBatchFixture(t)

	results, err := executor.Execute(context.Background(), echoNode(false), nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}
