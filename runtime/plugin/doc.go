// Package plugin is the surface plugin authors build against.
//
// Plugins import this package and never the parent runtime package:
//
//	import "github.com/sflowg/signaliz/runtime/plugin"
//
// # Plugin Structure
//
// A plugin is a struct with exported task methods. Two method shapes are
// discovered when the plugin is registered:
//
//	func (p *P) Name(exec *plugin.Execution, args plugin.Input) (plugin.Output, error)
//	func (p *P) Name(exec *plugin.Execution, input SomeInput) (plugin.Output, error)
//
// The second shape is a typed task. The host applies `default` tags,
// decodes the resolved node parameters into SomeInput by their json names,
// and checks `validate` tags before the method runs. A missing required
// parameter never reaches the plugin; it surfaces as a parameter error
// on the item.
//
// Task naming: RegisterPlugin("signaliz", p) with method DeepResearch
// registers "signaliz.deepResearch". A node selects it with
// `resource: deepResearch`.
//
// # Configuration
//
// Plugins expose their settings as a Config struct with declarative tags:
//
//	type Config struct {
//	    APIKey  string        `yaml:"api_key" validate:"required"`
//	    Timeout time.Duration `yaml:"timeout" default:"0s" validate:"gte=0"`
//	}
//
// runtime.InitializeConfig fills defaults, merges raw values and validates.
//
// # Lifecycle
//
// Initializer and Shutdowner are optional. Initialize runs after config has
// been prepared; Shutdown runs in reverse registration order.
//
// # Errors
//
// Return a TaskError to attach metadata (type, status_code, retryable) to a
// failure. The host records it per item or aborts the batch, depending on
// the node's continue_on_fail setting.
package plugin
