package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/internal/api"
	errs "github.com/matzehuels/hanoi/pkg/errors"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxRings int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve solves over HTTP",
		Long: `Serve runs the HTTP API:

  GET /healthz
  GET /v1/solve?rings=&pegs=&from=&to=&refresh=

Omitted query parameters take the configured defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("max-rings") {
				cfg.Server.MaxRings = maxRings
				if err := errs.ValidateRingCount(maxRings); err != nil {
					return fmt.Errorf("--max-rings: %w", err)
				}
			}

			runner, store, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           api.NewServer(runner, cfg.Options(), cfg.Server.MaxRings, logger).Handler(),
				ReadHeaderTimeout: readHeaderTimeout,
			}
			return serve(ctx, srv, func() {
				logger.Info("listening", "addr", cfg.Server.Addr, "max_rings", cfg.Server.MaxRings)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxRings, "max-rings", 0, "largest ring count a request may ask for (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, started func()) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	started()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
