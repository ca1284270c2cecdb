package plugin

import (
	"github.com/sflowg/signaliz/runtime"
)

// Initializer is called once at container startup, after config has been
// prepared. An error stops startup.
//
//	func (p *SignalizPlugin) Initialize(ctx context.Context) error {
//	    p.client = resty.New().SetTimeout(p.Config.Timeout)
//	    return nil
//	}
type Initializer = runtime.Initializer

// Shutdowner is called during graceful shutdown, in reverse order of
// registration.
type Shutdowner = runtime.Shutdowner

// InputDecoder lets a typed task input field decode itself from the raw
// parameter value, for shapes mapstructure cannot express directly.
// Implement it on the pointer receiver:
//
//	func (r *FileReferences) DecodeInput(raw any) error
type InputDecoder = runtime.InputDecoder
