package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Jeffail/gabs/v2"
	"github.com/sflowg/signaliz/cli/internal/security"
	"github.com/sflowg/signaliz/runtime"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	var (
		itemsPath      string
		continueOnFail bool
	)

	cmd := &cobra.Command{
		Use:   "run <node>",
		Short: "Run a node over a batch of items",
		Long: `Run executes a node from signaliz.yaml once per input item and prints
the results as JSON.

Items are read from a JSON file holding a list of objects, or an object
with an "items" list. Use "-" to read from stdin. Without --items the node
runs once with an empty item.

Example:
  signaliz run enrich --items leads.json
  cat leads.json | signaliz run enrich --items -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := loadProject(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer p.close(ctx)

			node, ok := p.app.Node(args[0])
			if !ok {
				return fmt.Errorf("unknown node: %s", args[0])
			}
			if cmd.Flags().Changed("continue-on-fail") {
				node.ContinueOnFail = continueOnFail
			}

			items := []runtime.Item{{JSON: map[string]any{}}}
			if itemsPath != "" {
				data, err := readItemsSource(cmd, p.dir, itemsPath)
				if err != nil {
					return err
				}
				if items, err = parseItems(data); err != nil {
					return err
				}
			}

			results, runErr := p.app.Executor.Execute(ctx, &node, items)

			// Partial results are printed before the error is reported
			if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&itemsPath, "items", "i", "", `JSON file with input items, relative to the project directory ("-" for stdin)`)
	cmd.Flags().BoolVar(&continueOnFail, "continue-on-fail", false, "Record failed items as error outputs instead of stopping (overrides the node setting)")

	return cmd
}

func readItemsSource(cmd *cobra.Command, projectDir, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read items from stdin: %w", err)
		}
		return data, nil
	}

	resolved, err := security.ResolveWithin(projectDir, path)
	if err != nil {
		return nil, fmt.Errorf("invalid items path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	return data, nil
}

// parseItems accepts a list of objects or {"items": [...]}.
func parseItems(data []byte) ([]runtime.Item, error) {
	parsed, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("items must be JSON: %w", err)
	}

	if parsed.Exists("items") {
		parsed = parsed.S("items")
	}

	list, ok := parsed.Data().([]any)
	if !ok {
		return nil, fmt.Errorf(`items must be a list of objects or an object with an "items" list`)
	}

	items := make([]runtime.Item, len(list))
	for i, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected an object, got %T", i, raw)
		}
		items[i] = runtime.Item{JSON: obj}
	}
	return items, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
