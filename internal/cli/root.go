// Package cli is the command-line entry point: the HTTP server plus the
// offline operator tasks that share its configuration.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/shared/database"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Env string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "QR attendance tracking server",
		Long: `Tracks member attendance from QR badge scans and operator actions.

Configuration is read from .env.<env> and the process environment.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(opts.Env)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Env, "env", "local", "environment (local|dev|prod)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewPosterCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))

	return cmd
}

// open loads configuration and connects to the store. The caller closes db.
func open(opts *RootOptions) (*config.Config, *database.DB, error) {
	cfg, err := config.Load(opts.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}
