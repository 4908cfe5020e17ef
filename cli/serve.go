/*
serve.go - HTTP server command

STARTUP SEQUENCE:
  1. Open the SQLite scheme catalogue
  2. Seed built-in presets (presets.seed)
  3. Create API handler and router
  4. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Close database connection

EXAMPLES:
  # Run with file database
  vesting serve --db ./data/vesting.db

  # Run with in-memory database
  vesting serve --db :memory:

  # Run on different port
  vesting serve --port 3000
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/vesting-engine/api"
	"github.com/warp/vesting-engine/config"
	"github.com/warp/vesting-engine/generic"
	"github.com/warp/vesting-engine/store/sqlite"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "HTTP server port")
	cmd.Flags().String("db", "vesting.db", `SQLite database path (":memory:" for in-memory)`)
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("db.path", cmd.Flags().Lookup("db"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	server, store, err := newServer(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer store.Close()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting",
			zap.Int("port", a.cfg.Server.Port),
			zap.String("db", a.cfg.DB.Path),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("server stopped")
	return nil
}

// newServer wires the store, handler and router. The caller closes the
// returned store after the server stops.
func newServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*http.Server, *sqlite.Store, error) {
	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	handler := api.NewHandler(store, log, marketFromConfig(cfg.Market))
	if cfg.Presets.Seed {
		if err := handler.SeedPresets(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
	}

	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.CORS.AllowedOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return server, store, nil
}

func marketFromConfig(m config.MarketConfig) generic.MarketAssumptions {
	return generic.MarketAssumptions{
		CurrentPriceUSD:     generic.NewAmount(m.PriceUSD, generic.UnitUSD),
		AnnualGrowthPercent: decimal.NewFromFloat(m.GrowthPercent),
	}
}
