package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sflowg/signaliz/runtime"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project's nodes over HTTP",
		Long: `Serve exposes every node in signaliz.yaml over HTTP:

  GET  /health                liveness
  GET  /nodes                 configured nodes
  POST /nodes/:name/execute   run a node over {"items": [...]}

In-flight requests are drained on SIGINT or SIGTERM before plugins shut down.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := loadProject(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer p.close(context.Background())

			if port == "" {
				port = p.config.Server.Port
			}

			if opts.logLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			g := gin.New()
			g.Use(gin.Recovery())
			runtime.NewHttpHandler(p.app, p.logger, g)

			server := &http.Server{
				Addr:    ":" + port,
				Handler: g,
			}

			serveErr := make(chan error, 1)
			go func() {
				p.logger.Info("Server listening", "addr", server.Addr, "nodes", len(p.config.Nodes))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			p.logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (defaults to server.port in signaliz.yaml)")

	return cmd
}
