package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// Global flags
var (
	cfgFile    string
	serverFlag string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "vdash",
	Short: "Live dashboard for a vLLM monitoring backend",
	Long: `vdash connects to a monitoring backend's websocket stream and shows the
latest host and vLLM telemetry, reconnecting on its own whenever the stream
drops.

With no subcommand, vdash runs the dashboard when stdout is a terminal and
falls back to tail output when it is piped.

Examples:
  vdash
  vdash --server http://gpu-box:5111
  vdash tail --json | jq .status
  vdash doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.DisableColors()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if isTerminal(os.Stdout) {
			return watchCommand(cmd.Context())
		}
		return tailCommand(cmd.Context(), cmd.OutOrStdout(), tailJSON)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: .vdash.yaml, then ~/.config/vdash/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "backend URL, overrides the config file (e.g. http://localhost:5111)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits with the right status code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if code, ok := errors.GetExitCode(err); ok {
		stop()
		os.Exit(code)
	}

	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(os.Stderr, msg)
	stop()
	os.Exit(1)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
