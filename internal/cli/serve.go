package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/nccmultimedia/attendance-server/internal/bootstrap"
	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/registration"
	"github.com/nccmultimedia/attendance-server/internal/router"
	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/database"
	"github.com/nccmultimedia/attendance-server/internal/shared/validator"
	"github.com/spf13/cobra"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server, scanner and dashboard refresher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, db, err := open(opts)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := validator.RegisterAll(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	srv, components := setupServer(ctx, cfg, db)

	registerURL := registration.RegisterURL(cfg.App.PublicBaseURL, cfg.App.Port)
	if path, err := registration.WritePoster(cfg.Notify.QRDir, registerURL, cfg.Notify.QRSize); err != nil {
		slog.Warn("Registration poster not written", "error", err)
	} else {
		slog.Info("Registration poster written", "path", path, "url", registerURL)
	}

	components.Refresher.Start(ctx)
	if cfg.Scanner.Enabled {
		if err := components.Scanner.Start(); err != nil {
			slog.Warn("Scanner not started", "error", err)
		}
	}

	return startWithGracefulShutdown(ctx, srv, cfg)
}

func setupServer(ctx context.Context, cfg *config.Config, db *database.DB) (*bootstrap.Server, *router.Components) {
	m := metrics.New()

	engine := bootstrap.NewBootstrap(cfg, m).SetupEngine(router.LiveFeedPath)
	components := router.Setup(ctx, engine, cfg, db, m)

	srv := bootstrap.New(cfg, engine)
	srv.OnShutdown("scanner", func(ctx context.Context) error {
		if err := components.Scanner.Stop(ctx); err != nil && !errors.Is(err, scan.ErrScannerNotRunning) {
			return err
		}
		return nil
	})
	srv.OnShutdown("dashboard", func(context.Context) error {
		components.Refresher.Stop()
		return nil
	})
	srv.OnShutdown("notifier", components.Notifier.Wait)

	slog.Info("Server configured", "env", cfg.App.Env)
	return srv, components
}

// startWithGracefulShutdown serves until ctx is cancelled by a signal, then
// drains within the configured grace period.
func startWithGracefulShutdown(ctx context.Context, srv *bootstrap.Server, cfg *config.Config) error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.GracefulTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	}
}
