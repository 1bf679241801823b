package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/logging"
	"github.com/aretw0/kanban/internal/presentation/tui"
	"github.com/aretw0/kanban/internal/runtime"
	kanbanhttp "github.com/aretw0/kanban/pkg/adapters/http"
	"github.com/aretw0/kanban/pkg/observability"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the board HTTP server",
		Long: `Serves the configured store over HTTP: the board document, an action
endpoint applying transitions server-side, a Server-Sent Events stream of
board diffs, health, OpenAPI and Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.HTTP.Addr
			}
			level, _ := logging.ParseLevel(cfg.LogLevel)
			log := logging.NewJSON(level)

			if term.IsTerminal(int(os.Stderr.Fd())) {
				tui.PrintBanner(os.Stderr, strings.TrimSpace(kanban.Version))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer be.close()

			ids, err := runtime.NewIDGenerator(cfg.Board.IDScheme)
			if err != nil {
				return err
			}

			hooks := observability.LogHooks(log)
			opts := []kanbanhttp.Option{
				kanbanhttp.WithEngine(runtime.NewEngine(runtime.WithIDGenerator(ids))),
				kanbanhttp.WithLogger(log),
			}
			if !cfg.HTTP.DisableMetrics {
				metrics := observability.NewMetrics()
				hooks = observability.Chain(metrics.Hooks(), hooks)
				opts = append(opts, kanbanhttp.WithMetricsHandler(metrics.Handler()))
			}
			opts = append(opts, kanbanhttp.WithHooks(hooks))

			be.store = middleware.Chain(be.store, middleware.NewInstrumentationMiddleware(hooks))
			handler := kanbanhttp.NewHandler(be.sessions(log), opts...)

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: cfg.HTTP.ReadTimeout.Duration(),
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				log.Info("Starting kanban server", "addr", addr, "store", cfg.Store.Backend)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				log.Info("Start shutdown")
				timeout := cfg.HTTP.ShutdownTimeout.Duration()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Warn("Graceful shutdown did not complete", "timeout", timeout, "err", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("killing server: %w", err)
					}
				}
				log.Info("Kanban server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
