package plugin

import "github.com/sflowg/signaliz/runtime"

// Execution is the context a task receives for one input item.
//
// It implements context.Context, so it can be handed straight to outbound
// calls; cancelling the run cancels them:
//
//	resp, err := client.R().SetContext(exec).Post(url)
//
// Fields:
//
//	exec.ID    // unique per item execution (UUID)
//	exec.Node  // the node being run: name, resource, parameters
//	exec.Item  // zero-based index of the item in the batch
//
// Values() exposes the expression environment the node parameters were
// resolved against ("json", "index", "node").
type Execution = runtime.Execution
