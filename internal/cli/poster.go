package cli

import (
	"fmt"

	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/registration"
	"github.com/spf13/cobra"
)

func NewPosterCommand(rootOpts *RootOptions) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "poster",
		Short: "Write the registration poster QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if size <= 0 {
				size = cfg.Notify.QRSize
			}

			url := registration.RegisterURL(cfg.App.PublicBaseURL, cfg.App.Port)
			path, err := registration.WritePoster(cfg.Notify.QRDir, url, size)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", url, path)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "image size in pixels (default NOTIFY_QR_SIZE)")
	return cmd
}
