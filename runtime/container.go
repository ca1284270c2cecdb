package runtime

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Task is a single invocable unit registered in the container under
// "<plugin>.<method>".
type Task interface {
	Execute(*Execution, map[string]any) (map[string]any, error)
}

type Container struct {
	Tasks        map[string]Task
	plugins      map[string]any
	initializers []Initializer
	shutdowners  []Shutdowner
}

func NewContainer() *Container {
	return &Container{
		Tasks:   make(map[string]Task),
		plugins: make(map[string]any),
	}
}

func (c *Container) GetTask(name string) Task {
	task, ok := c.Tasks[name]
	if !ok {
		return nil
	}
	return task
}

func (c *Container) SetTask(name string, task Task) {
	c.Tasks[name] = task
}

// TaskNames returns the registered task names in lexical order.
func (c *Container) TaskNames() []string {
	names := make([]string, 0, len(c.Tasks))
	for name := range c.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterPlugin registers a plugin instance and auto-discovers its tasks and lifecycle hooks
func (c *Container) RegisterPlugin(pluginName string, plugin any) error {
	if plugin == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	if _, exists := c.plugins[pluginName]; exists {
		return fmt.Errorf("plugin %q is already registered", pluginName)
	}

	c.plugins[pluginName] = plugin

	if i, ok := plugin.(Initializer); ok {
		c.initializers = append(c.initializers, i)
	}
	if s, ok := plugin.(Shutdowner); ok {
		c.shutdowners = append(c.shutdowners, s)
	}

	pluginType := reflect.TypeOf(plugin)
	pluginValue := reflect.ValueOf(plugin)

	for i := 0; i < pluginType.NumMethod(); i++ {
		method := pluginType.Method(i)

		if !method.IsExported() {
			continue
		}

		taskName := fmt.Sprintf("%s.%s", pluginName, toLowerFirst(method.Name))

		switch {
		case isValidTaskSignature(method.Type):
			c.Tasks[taskName] = &pluginTaskWrapper{plugin: pluginValue, method: method}
		case isTypedTaskSignature(method.Type):
			c.Tasks[taskName] = newTypedTaskWrapper(taskName, pluginValue, method)
		}
	}

	return nil
}

// Initialize calls Initialize on all plugins implementing Initializer, in
// registration order. The first failure stops startup.
func (c *Container) Initialize(ctx context.Context) error {
	for _, i := range c.initializers {
		if err := i.Initialize(ctx); err != nil {
			return fmt.Errorf("plugin %T initialization failed: %w", i, err)
		}
	}
	return nil
}

// Shutdown calls Shutdown on all plugins implementing Shutdowner.
// Plugins are shut down in reverse order of registration
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(c.shutdowners) - 1; i >= 0; i-- {
		if err := c.shutdowners[i].Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("plugin %T shutdown failed: %w", c.shutdowners[i], err))
		}
	}
	return errors.Join(errs...)
}

var (
	executionPtrType = reflect.TypeOf((*Execution)(nil))
	mapType          = reflect.TypeOf(map[string]any(nil))
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
)

// isValidTaskSignature checks if method has the map-based task signature
// Valid: func(exec *Execution, args map[string]any) (map[string]any, error)
func isValidTaskSignature(methodType reflect.Type) bool {
	if methodType.NumIn() != 3 || methodType.NumOut() != 2 {
		return false
	}

	return methodType.In(1) == executionPtrType &&
		methodType.In(2) == mapType &&
		methodType.Out(0) == mapType &&
		methodType.Out(1) == errorType
}

// isTypedTaskSignature checks for the typed task signature
// Valid: func(exec *Execution, input SomeStruct) (SomeStruct | map[string]any, error)
func isTypedTaskSignature(methodType reflect.Type) bool {
	if methodType.NumIn() != 3 || methodType.NumOut() != 2 {
		return false
	}

	if methodType.In(1) != executionPtrType || methodType.In(2).Kind() != reflect.Struct {
		return false
	}

	out := methodType.Out(0)
	if out != mapType && out.Kind() != reflect.Struct {
		return false
	}

	return methodType.Out(1) == errorType
}

// toLowerFirst converts first character of string to lowercase
func toLowerFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pluginTaskWrapper wraps a map-based plugin method to implement Task
type pluginTaskWrapper struct {
	plugin reflect.Value
	method reflect.Method
}

func (w *pluginTaskWrapper) Execute(exec *Execution, args map[string]any) (map[string]any, error) {
	results := w.method.Func.Call([]reflect.Value{
		w.plugin,
		reflect.ValueOf(exec),
		reflect.ValueOf(args),
	})

	resultMap, _ := results[0].Interface().(map[string]any)

	var err error
	if !results[1].IsNil() {
		err = results[1].Interface().(error)
	}

	return resultMap, err
}
