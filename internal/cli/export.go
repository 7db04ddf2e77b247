package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/report"
	"github.com/nccmultimedia/attendance-server/internal/shared/clock"
	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Format   string
	Output   string
	MemberID uint32
	Start    string
	End      string
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write attendance history to a CSV or XLSX file",
		Long: `Write attendance history, newest day first, to a file.

Example:
  attendance export --format xlsx --out june.xlsx --start 2025-06-01 --end 2025-06-30
  attendance export --member 12 --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "csv", "output format (csv|xlsx)")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output file, - for stdout (default attendance.<format>)")
	cmd.Flags().Uint32Var(&opts.MemberID, "member", 0, "only this member ID")
	cmd.Flags().StringVar(&opts.Start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.End, "end", "", "last day, YYYY-MM-DD")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, stdout io.Writer) error {
	if opts.Format != "csv" && opts.Format != "xlsx" {
		return fmt.Errorf("invalid format %q: must be csv or xlsx", opts.Format)
	}

	cfg, db, err := open(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeDB(db)

	history := attendance.NewAttendanceService(db.DB, attendance.NewAttendanceRepository(), member.NewMemberRepository(),
		clock.NewSystem(cfg.Location()), model.Event(cfg.Attendance.DefaultEvent), nil)
	exporter := report.NewExporter(history, cfg.Location())

	w := stdout
	path := opts.Output
	if path == "" {
		path = "attendance." + opts.Format
	}
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	filter := attendance.HistoryFilter{MemberID: opts.MemberID, Start: opts.Start, End: opts.End}
	write := exporter.CSV
	if opts.Format == "xlsx" {
		write = exporter.XLSX
	}

	n, err := write(ctx, w, filter)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	slog.Info("Attendance exported", "rows", n, "format", opts.Format, "path", path)
	return nil
}
