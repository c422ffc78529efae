package cli

import (
	"context"
	"os"

	"github.com/rileyhilliard/raytop/internal/api"
	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/rileyhilliard/raytop/pkg/sshutil"
	"golang.org/x/term"
)

// LogEnv names a file the dashboard appends log lines to. The alternate
// screen owns the terminal, so without it the dashboard logs nothing.
const LogEnv = "RAYTOP_LOG"

// newClient builds the dashboard client, tunneled through cfg.SSH when set.
// The returned func releases the tunnel and must always be called.
func newClient(cfg *config.Config, log logger.Logger) (*api.Client, func(), error) {
	opts := []api.Option{
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(log),
	}

	release := func() {}
	if cfg.SSH != "" {
		tunnel := sshutil.NewTunnel(cfg.SSH, cfg.Timeout, log)
		opts = append(opts, api.WithDialContext(tunnel.DialContext))
		release = func() {
			if err := tunnel.Close(); err != nil {
				log.Debug("closing tunnel to %s: %v", tunnel.Host(), err)
			}
			sshutil.CloseAgent()
		}
	}

	client, err := api.NewClient(cfg.Address, opts...)
	if err != nil {
		release()
		return nil, func() {}, err
	}
	return client, release, nil
}

// displayAddress is the address shown in headers and messages.
func displayAddress(cfg *config.Config) string {
	if cfg.SSH == "" {
		return cfg.Address
	}
	return cfg.Address + " via " + cfg.SSH
}

// FetchSnapshot mounts a view-model, waits for its first fetch, and returns
// the derived state. The node list command uses it so one-shot output goes
// through the same derivation as the dashboard.
func FetchSnapshot(ctx context.Context, f nodes.Fetcher, opts ...nodes.Option) (nodes.State, error) {
	done := make(chan error, 1)
	report := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	opts = append(opts,
		nodes.WithOnChange(func() { report(nil) }),
		nodes.WithOnError(report),
	)
	vm := nodes.New(f, opts...)
	vm.Mount(ctx)
	defer vm.Unmount()

	select {
	case err := <-done:
		if err != nil {
			return nodes.State{}, err
		}
		return vm.Snapshot(), nil
	case <-ctx.Done():
		return nodes.State{}, errors.WrapWithCode(ctx.Err(), errors.ErrAPI,
			"Node list fetch was interrupted",
			"Run the command again")
	}
}

// tuiLogger opens the RAYTOP_LOG file when set. The close func is never nil.
func tuiLogger() (logger.Logger, func(), error) {
	path := os.Getenv(LogEnv)
	if path == "" {
		return logger.Noop(), func() {}, nil
	}

	f, err := os.OpenFile(config.ExpandTilde(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, func() {}, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+path,
			"Check the "+LogEnv+" path or unset it")
	}
	return logger.NewWriterLogger(f, "raytop"), func() { f.Close() }, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
