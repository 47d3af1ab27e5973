package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/stream"
	"github.com/rileyhilliard/vdash/internal/ui"
	"github.com/rileyhilliard/vdash/pkg/sshutil"
)

// noSSH is the select option for a direct connection.
const noSSH = "(none, connect directly)"

// InitOptions holds options for the init command.
type InitOptions struct {
	Server         string // Pre-specified backend URL
	SSH            string // Pre-specified SSH host to tunnel through
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
	Global         bool   // Write ~/.config/vdash/config.yaml instead of ./.vdash.yaml
	Out            io.Writer
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a vdash config file",
	Long: `Create a .vdash.yaml in the current directory (or the user config with
--global). Interactive mode asks for the backend URL and offers the hosts from
~/.ssh/config for tunnelling.

Examples:
  vdash init
  vdash init --server http://localhost:5111 --ssh gpu-box --non-interactive
  vdash init --global --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.Out = cmd.OutOrStdout()
		if serverFlag != "" && opts.Server == "" {
			opts.Server = serverFlag
		}
		return Init(opts)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initOpts.SSH, "ssh", "", "SSH host to tunnel through (alias, user@host or host:port)")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite an existing config without asking")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts and use flags or defaults")
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write the user config instead of ./"+config.ConfigFileName)
}

// Init writes a new config file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	path, err := initPath(opts.Global)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("'%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	cfg.SSH = opts.SSH

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	cfg.Server = strings.TrimSpace(cfg.Server)
	cfg.SSH = strings.TrimSpace(cfg.SSH)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Overwrite was either confirmed or forced above.
	if err := config.Write(path, cfg, true); err != nil {
		return err
	}

	endpoint, _ := stream.EndpointURL(cfg.Server, cfg.Path)
	fmt.Fprintf(out, "%s Wrote %s\n", ui.SymbolSuccess, path)
	fmt.Fprintf(out, "  stream: %s\n", endpoint)
	if cfg.SSH != "" {
		fmt.Fprintf(out, "  via ssh: %s\n", cfg.SSH)
	}
	fmt.Fprintln(out, "\nRun 'vdash doctor' to check the connection, then 'vdash' to start.")
	return nil
}

func initPath(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't find your home directory",
			"Set HOME or write a project config without --global")
	}
	return config.GlobalPath(home), nil
}

// promptConfig asks for the server and SSH host, prefilled from cfg.
func promptConfig(cfg *config.Config) error {
	server := cfg.Server
	sshHost := cfg.SSH

	fields := []huh.Field{
		huh.NewInput().
			Title("Backend URL").
			Description("Base URL of the monitoring backend").
			Placeholder(config.DefaultServer).
			Value(&server).
			Validate(func(s string) error {
				if _, err := stream.EndpointURL(strings.TrimSpace(s), cfg.Path); err != nil {
					return fmt.Errorf("not a valid http(s) or ws(s) URL")
				}
				return nil
			}),
	}

	hosts, _ := sshutil.ListHosts()
	if len(hosts) > 0 && sshHost == "" {
		options := []huh.Option[string]{huh.NewOption(noSSH, "")}
		for _, h := range hosts {
			options = append(options, huh.NewOption(h.Alias+"  "+h.Description(), h.Alias))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Tunnel through SSH?").
			Description("Pick a host from ~/.ssh/config when the backend only listens on localhost").
			Options(options...).
			Value(&sshHost))
	} else {
		fields = append(fields, huh.NewInput().
			Title("SSH host (optional)").
			Description("Alias, user@host or host:port to tunnel through").
			Placeholder("leave empty to connect directly").
			Value(&sshHost))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	cfg.Server = server
	cfg.SSH = sshHost
	return nil
}
