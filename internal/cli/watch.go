package cli

import (
	"context"
	stderrors "errors"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/dashboard"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
)

// debugLogFile receives log output while the dashboard owns the screen.
const debugLogFile = "vdash-debug.log"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the live dashboard",
	Long: `Open a full-screen dashboard that follows the backend's monitoring stream.

The dashboard shows connection status at all times. When the stream drops it
keeps the last snapshot on screen and retries on a fixed interval; press r
or refocus the terminal to retry immediately.

Set VDASH_DEBUG=1 to write connection logs to vdash-debug.log.

Examples:
  vdash watch
  vdash watch --server http://gpu-box:5111
  vdash watch --config ~/lab/.vdash.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	// Anything written to stderr would tear the alt screen.
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "vdash")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open "+debugLogFile,
				"Unset "+logger.DebugEnv+" or run from a writable directory")
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	lg := logger.NewEnvLogger("[vdash]")
	rt, err := openSession(cfg, lg)
	if err != nil {
		return err
	}
	defer rt.close()

	model := dashboard.NewModel(dashboard.Options{
		Source:        rt.session,
		Updates:       rt.latest.C(),
		Thresholds:    cfg.Thresholds,
		Via:           cfg.SSH,
		RetryInterval: cfg.RetryInterval,
		Logger:        lg,
	})

	rt.session.Activate()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrStream,
			"Dashboard stopped unexpectedly",
			"Run 'vdash tail' to follow the stream without the dashboard")
	}
	return nil
}
