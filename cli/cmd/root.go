package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/sflowg/signaliz/cli/internal/config"
	"github.com/sflowg/signaliz/plugins/signaliz"
	"github.com/sflowg/signaliz/runtime"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	projectDir string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the signaliz command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "signaliz",
		Short: "Signaliz - company research nodes",
		Long: `Signaliz runs company research nodes against the Signaliz API.

Nodes are declared in signaliz.yaml in the project directory. Each node
runs once per input item: parameters are resolved against the item, the
request is sent, and the response becomes the item's output.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.projectDir, "project", "p", ".", "Project directory containing "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		newRunCommand(opts),
		newServeCommand(opts),
		newCredentialsCommand(opts),
		newResourcesCommand(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// newLogger builds the CLI logger. Logs go to w so stdout stays reserved
// for command output.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: expected text or json", format)
	}
}

// project is a loaded signaliz.yaml with its plugin initialized and nodes
// registered.
type project struct {
	dir       string
	config    *config.ProjectConfig
	logger    *slog.Logger
	plugin    *signaliz.SignalizPlugin
	container *runtime.Container
	app       *runtime.App
}

func loadProject(ctx context.Context, cmd *cobra.Command, opts *options) (*project, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(opts.projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	plugin := &signaliz.SignalizPlugin{Logger: logger}
	if err := runtime.InitializeConfig(&plugin.Config, cfg.Plugin); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", runtime.DefaultPlugin, err)
	}

	container := runtime.NewContainer()
	if err := container.RegisterPlugin(runtime.DefaultPlugin, plugin); err != nil {
		return nil, err
	}
	if err := container.Initialize(ctx); err != nil {
		return nil, err
	}

	app := runtime.NewApp(container, logger)
	for _, node := range cfg.Nodes {
		if err := app.RegisterNode(node); err != nil {
			_ = container.Shutdown(ctx)
			return nil, err
		}
	}

	logger.DebugContext(ctx, "Project loaded",
		"project", cfg.Name,
		"dir", dir,
		"nodes", len(cfg.Nodes))

	return &project{
		dir:       dir,
		config:    cfg,
		logger:    logger,
		plugin:    plugin,
		container: container,
		app:       app,
	}, nil
}

func (p *project) close(ctx context.Context) {
	if err := p.container.Shutdown(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Shutdown failed", "error", err)
	}
}
