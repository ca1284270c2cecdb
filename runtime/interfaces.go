package runtime

import "context"

// Initializer interface allows plugins to perform startup initialization.
// Plugins implementing this interface will have Initialize called at container startup.
type Initializer interface {
	// Initialize is called once when the container starts up.
	// Use this to establish connections, initialize clients, etc.
	// Config is already prepared and set on the plugin struct.
	Initialize(ctx context.Context) error
}

// Shutdowner interface allows plugins to perform graceful shutdown.
// Plugins implementing this interface will have Shutdown called during graceful shutdown.
type Shutdowner interface {
	// Shutdown is called during graceful shutdown.
	// Use this to close connections, cleanup resources, etc.
	Shutdown(ctx context.Context) error
}

// InputDecoder lets a task input field take over its own decoding from the
// raw parameter value. Implemented on the pointer receiver.
type InputDecoder interface {
	DecodeInput(raw any) error
}
