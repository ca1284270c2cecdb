package runtime

// DefaultPlugin is the plugin a node's resource resolves against when the
// node does not name one.
const DefaultPlugin = "signaliz"

// Node is one configured action: a resource of a plugin plus the parameters
// resolved against every input item.
type Node struct {
	Name           string         `yaml:"name" json:"name"`
	Plugin         string         `yaml:"plugin,omitempty" json:"plugin,omitempty"`
	Resource       string         `yaml:"resource" json:"resource"`
	Operation      string         `yaml:"operation,omitempty" json:"operation,omitempty"`
	ContinueOnFail bool           `yaml:"continue_on_fail" json:"continue_on_fail"`
	Parameters     map[string]any `yaml:"parameters" json:"parameters,omitempty"`
}

// TaskName is the container key of the task this node runs.
func (n *Node) TaskName() string {
	plugin := n.Plugin
	if plugin == "" {
		plugin = DefaultPlugin
	}
	return plugin + "." + n.Resource
}

// Item is one unit of a batch. JSON is read-only to the runtime.
type Item struct {
	JSON map[string]any `json:"json"`
}

// PairedItem correlates an output with the input item it came from.
type PairedItem struct {
	Item int `json:"item"`
}

// ItemResult is the output recorded for one input item: either the task's
// payload or an {"error": message} record.
type ItemResult struct {
	JSON       map[string]any `json:"json"`
	PairedItem PairedItem     `json:"pairedItem"`
	Err        error          `json:"-"`
}

// IsError reports whether the result is an error record.
func (r ItemResult) IsError() bool {
	return r.Err != nil
}

// ItemsFromJSON wraps raw JSON objects as batch items.
func ItemsFromJSON(objects []map[string]any) []Item {
	items := make([]Item, len(objects))
	for i, obj := range objects {
		items[i] = Item{JSON: obj}
	}
	return items
}
