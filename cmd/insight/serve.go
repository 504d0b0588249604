package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/insightlabs/insight/internal/adapters/tracing"
	"github.com/spf13/cobra"

	insighthttp "github.com/insightlabs/insight/internal/adapters/http"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the Insight HTTP API server.

The server streams chat turns over Server-Sent Events and provides
REST endpoints for sessions and per-user memory.

Required configuration:
  - PostgreSQL database (INSIGHT_POSTGRES_URL)
  - Reasoning model endpoint (INSIGHT_MODEL_URL)

Optional:
  - Dedicated warehouse database (INSIGHT_WAREHOUSE_URL)
  - Embedding endpoint for knowledge search (INSIGHT_EMBEDDING_URL)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	slog.Info("starting Insight API server",
		"http", cfg.Server.Host,
		"port", cfg.Server.Port,
		"model", cfg.Model.Model)

	shutdownTracer, err := tracing.InitTracer("insight-api")
	if err != nil {
		slog.Warn("failed to initialize tracing", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(ctx); err != nil {
				slog.Error("error shutting down tracer", "error", err)
			}
		}()
	}

	s, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	slog.Info("database connection established")

	server := insighthttp.NewServer(
		cfg,
		s.service,
		s.sessions,
		s.messages,
		s.memory,
		s.db,
		s.warehouse,
		s.embedding,
	)

	errc := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}
