package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/raytop/internal/api"
	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/rileyhilliard/raytop/internal/ui"
	"github.com/rileyhilliard/raytop/pkg/sshutil"
	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Address        string // Pre-specified dashboard address
	SSH            string // Pre-specified SSH host/alias to tunnel through
	Path           string // Target file; derived from Global when empty
	Global         bool   // Write the global config instead of ./.raytop.yaml
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	SkipCheck      bool   // Don't contact the dashboard before saving
}

// initDefaults holds values read from the environment.
type initDefaults struct {
	Address        string
	SSH            string
	NonInteractive bool
}

// getInitDefaults reads RAYTOP_ADDRESS, RAYTOP_SSH, and RAYTOP_NON_INTERACTIVE.
// CI=true also turns prompts off.
func getInitDefaults() initDefaults {
	return initDefaults{
		Address:        os.Getenv("RAYTOP_ADDRESS"),
		SSH:            os.Getenv("RAYTOP_SSH"),
		NonInteractive: os.Getenv("RAYTOP_NON_INTERACTIVE") == "true" || os.Getenv("CI") == "true",
	}
}

// mergeInitDefaults fills unset options from the environment.
func mergeInitDefaults(opts InitOptions, d initDefaults) InitOptions {
	if opts.Address == "" {
		opts.Address = d.Address
	}
	if opts.SSH == "" {
		opts.SSH = d.SSH
	}
	if d.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

// initPath returns where the config file goes.
func initPath(opts InitOptions) string {
	switch {
	case opts.Path != "":
		return opts.Path
	case opts.Global:
		return config.GlobalConfigPath()
	default:
		return filepath.Join(".", config.ConfigFileName)
	}
}

// Init creates a new config file.
func Init(opts InitOptions, out io.Writer) error {
	configPath := initPath(opts)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
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
	if opts.Address != "" {
		cfg.Address = opts.Address
	}
	cfg.SSH = opts.SSH

	if !opts.NonInteractive {
		if err := runInitForm(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Test the dashboard before saving
	if !opts.SkipCheck {
		fmt.Fprintln(out)
		count, err := checkDashboard(cfg, out)
		if err != nil {
			if opts.NonInteractive {
				return err
			}

			fmt.Fprintf(out, "\n%s %s\n\n", ui.SymbolFail, errors.Summarize(err))
			var saveAnyway bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Save config anyway? (You can fix the connection later)").
						Value(&saveAnyway),
				),
			)
			if formErr := form.Run(); formErr != nil || !saveAnyway {
				return err
			}
		} else {
			fmt.Fprintf(out, "  %d nodes reported\n\n", count)
		}
	}

	if err := config.Write(configPath, cfg, true); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  raytop         - Watch the node list")
	fmt.Fprintln(out, "  raytop nodes   - Print the node list once")
	return nil
}

// runInitForm prompts for the dashboard address, SSH host, default view, and
// refresh interval, editing cfg in place.
func runInitForm(cfg *config.Config) error {
	interval := cfg.Interval.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard address").
				Description("Base URL of the cluster dashboard").
				Placeholder(config.DefaultAddress).
				Value(&cfg.Address).
				Validate(validateAddressInput),
		),
		huh.NewGroup(sshField(&cfg.SSH)),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default view").
				Options(
					huh.NewOption("Table", "table"),
					huh.NewOption("Cards", "card"),
				).
				Value(&cfg.View.Mode),
			huh.NewInput().
				Title("Refresh interval").
				Description(fmt.Sprintf("How often to poll (at least %s)", config.MinInterval)).
				Placeholder("4s").
				Value(&interval).
				Validate(validateIntervalInput),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	d, err := time.ParseDuration(interval)
	if err != nil {
		return err
	}
	cfg.Interval = d
	return nil
}

// sshField is a picker over ~/.ssh/config aliases, or a free-form input when
// there are none.
func sshField(value *string) huh.Field {
	hosts, err := sshutil.ListHosts()
	if err != nil {
		logger.Default().Debug("reading ssh config: %v", err)
	}
	if len(hosts) == 0 {
		return huh.NewInput().
			Title("SSH host (optional)").
			Description("Tunnel dashboard requests through this host; leave empty to connect directly").
			Placeholder("user@head-node").
			Value(value)
	}
	return huh.NewSelect[string]().
		Title("Reach the dashboard through SSH?").
		Options(sshOptions(hosts, *value)...).
		Value(value)
}

// sshOptions lists "connect directly" followed by each alias. A current
// value missing from the list is kept as an option.
func sshOptions(hosts []sshutil.HostEntry, current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("No, connect directly", "")}
	found := current == ""
	for _, h := range hosts {
		label := h.Alias
		if desc := h.Description(); desc != h.Alias {
			label += " (" + desc + ")"
		}
		opts = append(opts, huh.NewOption(label, h.Alias))
		if h.Alias == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func validateAddressInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("address is required")
	}
	if _, err := api.ParseAddress(s); err != nil {
		return fmt.Errorf("not a valid dashboard address")
	}
	return nil
}

func validateIntervalInput(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a duration like 4s or 1m")
	}
	if d < config.MinInterval {
		return fmt.Errorf("interval must be at least %s", config.MinInterval)
	}
	return nil
}

// checkDashboard fetches the node list once and returns the node count.
func checkDashboard(cfg *config.Config, out io.Writer) (int, error) {
	spinner := ui.NewSpinner(out, "Checking the dashboard at "+displayAddress(cfg))
	spinner.Start()

	client, release, err := newClient(cfg, logger.Default())
	if err != nil {
		spinner.Fail()
		return 0, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	resp, err := client.NodeList(ctx)
	if err != nil {
		spinner.Fail()
		return 0, err
	}
	spinner.Success()
	return len(resp.Data.Summary), nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(cmd *cobra.Command, opts InitOptions) error {
	opts.Address = addressFlag
	opts.SSH = sshFlag
	opts = mergeInitDefaults(opts, getInitDefaults())
	if noColor {
		ui.ApplyColorMode("never", false)
	}
	return Init(opts, cmd.OutOrStdout())
}
