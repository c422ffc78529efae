package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/rileyhilliard/raytop/internal/monitor"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/rileyhilliard/raytop/internal/ui"
	"github.com/spf13/cobra"
)

// TopFlags holds flags for the dashboard.
type TopFlags struct {
	View ViewFlags
}

// topCommand starts the TUI dashboard. Without a terminal it prints the
// node list once instead.
func topCommand(cmd *cobra.Command, flags *TopFlags) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return nodesCommand(cmd, &NodesFlags{View: flags.View})
	}

	cfg, err := loadConfig(cmd, &flags.View)
	if err != nil {
		return err
	}
	ui.ApplyColorMode(cfg.Output.Color, true)

	log, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	logger.SetDefault(log)

	client, release, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	bridge := monitor.NewBridge()
	opts := append(viewModelOptions(cfg),
		nodes.WithLogger(log),
		nodes.WithOnChange(bridge.OnChange),
		nodes.WithOnError(bridge.OnError),
	)
	vm := nodes.New(client, opts...)

	model := monitor.NewModel(vm, displayAddress(cfg))
	p := tea.NewProgram(model, tea.WithAltScreen())
	bridge.Attach(p)

	log.Info("watching %s every %s", displayAddress(cfg), cfg.Interval)
	vm.Mount(commandContext(cmd))
	_, err = p.Run()

	// Stop polling before the tunnel goes away.
	vm.Unmount()

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUI,
			"The dashboard stopped unexpectedly",
			"Run 'raytop nodes' for plain output, or set "+LogEnv+" to capture logs")
	}
	return nil
}
