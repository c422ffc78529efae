package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile     string
	addressFlag string
	sshFlag     string
	noColor     bool
)

// rootFlags backs the dashboard when raytop runs without a subcommand.
var rootFlags TopFlags

// rootCmd runs the dashboard; subcommands cover one-shot output and setup.
var rootCmd = &cobra.Command{
	Use:   "raytop",
	Short: "Live node list for a Ray cluster",
	Long: `raytop polls a cluster dashboard's node list and shows it as a live,
filterable table in the terminal.

Without a subcommand raytop starts the dashboard (same as 'raytop top').
When stdout is not a terminal it prints the node list once instead.

Examples:
  raytop
  raytop --address http://head-node:8265
  raytop --ssh ray-head --filter state=ALIVE
  raytop nodes --json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return topCommand(cmd, &rootFlags)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .raytop.yaml, then ~/.config/raytop/config.yaml)")
	pf.StringVar(&addressFlag, "address", "", "dashboard address (e.g., http://head-node:8265)")
	pf.StringVar(&sshFlag, "ssh", "", "reach the dashboard through this SSH host or alias")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	AddViewFlags(rootCmd, &rootFlags.View)
	AddIntervalFlag(rootCmd, &rootFlags.View)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if MachineMode() {
			_ = WriteJSONFromError(os.Stdout, err)
		} else {
			fmt.Fprint(os.Stderr, formatError(err))
		}
		os.Exit(1)
	}
}

// formatError renders err for the terminal. Structured errors already end
// with a newline.
func formatError(err error) string {
	msg := err.Error()
	if msg == "" || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	return msg
}

// loadConfig resolves the config file and layers the global flags and the
// command's view flags on top before validating.
func loadConfig(cmd *cobra.Command, view *ViewFlags) (*config.Config, error) {
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, err
	}

	if addressFlag != "" {
		cfg.Address = addressFlag
	}
	if sshFlag != "" {
		cfg.SSH = sshFlag
	}
	if noColor {
		cfg.Output.Color = "never"
	}
	if view != nil {
		if err := view.Apply(cmd, cfg); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if path != "" {
		logger.Default().Debug("using config %s", path)
	}
	return cfg, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
