package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/tail"
)

var tailJSON bool

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print status changes and snapshots as lines",
	Long: `Follow the monitoring stream without a dashboard, printing one line per
status change or new snapshot. Use --json for one JSON record per line.

Sending SIGCONT (for example after 'fg') retries a dropped connection
immediately.

Examples:
  vdash tail
  vdash tail --json | jq -c '{status, cpu: .snapshot.system.cpu.usage_percent}'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tailCommand(cmd.Context(), cmd.OutOrStdout(), tailJSON)
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().BoolVar(&tailJSON, "json", false, "output JSON records instead of text")
}

func tailCommand(ctx context.Context, out io.Writer, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if asJSON {
		format = config.FormatJSON
	}
	printer, err := tail.NewPrinter(out, format)
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("[vdash]")
	rt, err := openSession(cfg, log)
	if err != nil {
		return err
	}
	defer rt.close()

	signals, stop := tail.Notify()
	defer stop()

	return tail.Run(ctx, rt.session, rt.latest.C(), printer, signals, log)
}
