package runtime

import (
	"fmt"
	"log/slog"
	"sort"
)

// App ties a container of plugins to the nodes configured against it.
type App struct {
	Container *Container
	Executor  *BatchExecutor
	Nodes     map[string]Node
}

func NewApp(container *Container, l *slog.Logger) *App {
	return &App{
		Container: container,
		Executor:  NewBatchExecutor(l, container, NewExpressionEvaluator()),
		Nodes:     make(map[string]Node),
	}
}

// RegisterNode adds a node after checking its task exists.
func (a *App) RegisterNode(node Node) error {
	if node.Name == "" {
		return fmt.Errorf("node name is required")
	}
	if _, exists := a.Nodes[node.Name]; exists {
		return fmt.Errorf("node %q is already registered", node.Name)
	}
	if a.Container.GetTask(node.TaskName()) == nil {
		return fmt.Errorf("node %q: unknown task %s", node.Name, node.TaskName())
	}
	a.Nodes[node.Name] = node
	return nil
}

// Node looks up a registered node by name.
func (a *App) Node(name string) (Node, bool) {
	node, ok := a.Nodes[name]
	return node, ok
}

// NodeList returns registered nodes ordered by name.
func (a *App) NodeList() []Node {
	nodes := make([]Node, 0, len(a.Nodes))
	for _, n := range a.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}
