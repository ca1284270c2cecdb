package runtime

import (
	"fmt"
	"reflect"
)

// typedTaskWrapper adapts a method taking a typed input struct to the
// map-based Task interface. Arguments are decoded, defaulted and validated
// before the plugin method runs, so plugins never re-check required fields.
type typedTaskWrapper struct {
	name      string
	plugin    reflect.Value
	method    reflect.Method
	inputType reflect.Type
}

func newTypedTaskWrapper(name string, pluginValue reflect.Value, method reflect.Method) *typedTaskWrapper {
	return &typedTaskWrapper{
		name:      name,
		plugin:    pluginValue,
		method:    method,
		inputType: method.Type.In(2),
	}
}

func (w *typedTaskWrapper) Execute(exec *Execution, args map[string]any) (map[string]any, error) {
	input := reflect.New(w.inputType)

	if err := ApplyDefaults(input.Interface()); err != nil {
		return nil, &ParameterError{Task: w.name, Err: err}
	}

	if args != nil {
		if err := mapToStruct(args, input.Interface()); err != nil {
			return nil, &ParameterError{Task: w.name, Err: err}
		}
	}

	if err := validate.Struct(input.Interface()); err != nil {
		return nil, newParameterError(w.name, err)
	}

	results := w.method.Func.Call([]reflect.Value{
		w.plugin,
		reflect.ValueOf(exec),
		input.Elem(),
	})

	if !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	output := results[0].Interface()
	if m, ok := output.(map[string]any); ok {
		return m, nil
	}

	m, err := structToMap(output)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to convert output: %w", w.name, err)
	}
	return m, nil
}
