package cli

import (
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	topFlags    TopFlags
	nodesFlags  NodesFlags
	initOpts    InitOptions
	doctorFlags DoctorFlags
)

// topCmd runs the live dashboard
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live node list dashboard",
	Long: `Start the live node list dashboard.

The node list refreshes every interval. Press ? inside the dashboard for key
bindings: / filters, s sorts, m switches between table and cards, space pauses.

Examples:
  raytop top
  raytop top --interval 10s --mode card
  raytop top --filter state=DEAD --sort hostname`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return topCommand(cmd, &topFlags)
	},
}

// nodesCmd prints one snapshot of the node list
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Print the node list once",
	Long: `Fetch the node list once and print one page of it.

Filters, sort, and paging work the same way as in the dashboard. With --json the
output is wrapped in a {"success", "data", "error"} envelope.

Examples:
  raytop nodes
  raytop nodes --filter hostname=worker --sort ip --desc
  raytop nodes --page-size 50 --page 2
  raytop nodes --json | jq '.data.nodes[].ip'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return nodesCommand(cmd, &nodesFlags)
	},
}

// initCmd creates a configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .raytop.yaml config file",
	Long: `Create a config file with the dashboard address and, optionally, an SSH
host to tunnel through. The address is checked before the file is written.

Examples:
  raytop init
  raytop init --global
  raytop init --non-interactive --address http://head-node:8265 --ssh ray-head`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(cmd, initOpts)
	},
}

// doctorCmd diagnoses config, SSH and dashboard problems
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose connection problems",
	Long: `Check the config file, the SSH tunnel host (when one is set) and the
dashboard's node list endpoint, and suggest fixes for whatever fails.

Examples:
  raytop doctor
  raytop doctor --ssh ray-head
  raytop doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd, doctorFlags)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for raytop.

Examples:
  # Bash
  raytop completion bash > /etc/bash_completion.d/raytop

  # Zsh
  raytop completion zsh > "${fpath[1]}/_raytop"

  # Fish
  raytop completion fish > ~/.config/fish/completions/raytop.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// top command flags
	AddViewFlags(topCmd, &topFlags.View)
	AddIntervalFlag(topCmd, &topFlags.View)

	// nodes command flags
	AddViewFlags(nodesCmd, &nodesFlags.View)
	nodesCmd.Flags().IntVar(&nodesFlags.Page, "page", 0, "page number to print (default 1)")
	nodesCmd.Flags().BoolVar(&nodesFlags.JSON, "json", false, "output JSON")

	// init command flags
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write ~/.config/raytop/config.yaml instead of ./.raytop.yaml")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts and use flags or defaults")
	initCmd.Flags().BoolVar(&initOpts.SkipCheck, "skip-check", false, "don't contact the dashboard before saving")

	// doctor command flags
	doctorCmd.Flags().BoolVar(&doctorFlags.JSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFlags.Fix, "fix", false, "attempt automatic fixes where possible")

	// Register all commands
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
