package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/no-hao/DFA/internal/cli"
	httpAdapter "github.com/no-hao/DFA/pkg/adapters/http"
	"github.com/no-hao/DFA/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the loaded automaton over a JSON API (see /swagger), with run history
in the transcript store, live run events over SSE and Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWith(cmd, func(a *app, w io.Writer) error {
			if cmd.Flags().Changed("port") {
				a.cfg.HTTP.Port, _ = cmd.Flags().GetString("port")
			}
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			return runServe(ctx, a, w)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}

// newAPIHandler wires the simulator, session store and metrics registry into the HTTP adapter.
func newAPIHandler(ctx context.Context, a *app) (http.Handler, func() error, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	sim, err := cli.NewSimulator(a.cfg, a.logger, metrics)
	if err != nil {
		return nil, nil, err
	}

	sessions, closeSessions, err := cli.NewSessions(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}

	handler, err := httpAdapter.NewHandler(sim,
		httpAdapter.WithSessions(sessions),
		httpAdapter.WithLogger(a.logger),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	if err != nil {
		closeSessions()
		return nil, nil, err
	}
	return handler, closeSessions, nil
}

func runServe(ctx context.Context, a *app, w io.Writer) error {
	handler, closeSessions, err := newAPIHandler(ctx, a)
	if err != nil {
		return err
	}
	defer closeSessions()

	srv := &http.Server{
		Addr:              ":" + a.cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Fprintf(w, "Starting DFA Server on %s\n", srv.Addr)
		fmt.Fprintf(w, "Serving automaton from: %s\n", a.cfg.Definition)
		serverErrors <- srv.ListenAndServe()
	}()

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		fmt.Fprintf(w, "\nStart shutdown...\n")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Fprintln(w, "DFA Server stopped gracefully")
		return nil
	}
}
