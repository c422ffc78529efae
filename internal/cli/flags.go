package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/spf13/cobra"
)

// ViewFlags holds the view parameter flags shared by the dashboard and the
// nodes command. Only flags the user actually set override the config.
type ViewFlags struct {
	Interval string
	Mode     string
	PageSize int
	Sort     string
	Desc     bool
	Filters  []string
}

// AddViewFlags registers --mode, --page-size, --sort, --desc, and --filter on a command.
func AddViewFlags(cmd *cobra.Command, flags *ViewFlags) {
	cmd.Flags().StringVar(&flags.Mode, "mode", "", "display mode: table or card")
	cmd.Flags().IntVar(&flags.PageSize, "page-size", 0, "nodes per page")
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "sort by hostname, ip, state, or nodeId")
	cmd.Flags().BoolVar(&flags.Desc, "desc", false, "sort in descending order")
	cmd.Flags().StringArrayVar(&flags.Filters, "filter", nil, "filter as field=substring (hostname, ip, state); repeatable")
}

// AddIntervalFlag registers --interval for commands that poll.
func AddIntervalFlag(cmd *cobra.Command, flags *ViewFlags) {
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "refresh interval (e.g., 2s, 10s)")
}

// Apply copies the flags that were set on cmd into cfg.
func (f *ViewFlags) Apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()

	if fs.Changed("interval") {
		d, err := ParseInterval(f.Interval)
		if err != nil {
			return err
		}
		cfg.Interval = d
	}
	if fs.Changed("mode") {
		cfg.View.Mode = f.Mode
	}
	if fs.Changed("page-size") {
		cfg.View.PageSize = f.PageSize
	}
	if fs.Changed("sort") {
		cfg.View.Sort.Key = f.Sort
	}
	if fs.Changed("desc") {
		cfg.View.Sort.Desc = f.Desc
	}

	for _, raw := range f.Filters {
		entry, err := nodes.ParseFilter(raw)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a valid filter", raw),
				"Use field=substring, e.g. --filter state=ALIVE or --filter hostname=worker.")
		}
		if cfg.View.Filters == nil {
			cfg.View.Filters = map[string]string{}
		}
		cfg.View.Filters[entry.Key.String()] = entry.Val
	}
	return nil
}

// ParseInterval parses a refresh interval string into a duration.
// Returns zero duration if the flag is empty.
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 10s, or 1m.")
	}
	return duration, nil
}

// viewModelOptions turns the resolved config into the view-model's initial
// parameters.
func viewModelOptions(cfg *config.Config) []nodes.Option {
	return []nodes.Option{
		nodes.WithInterval(cfg.Interval),
		nodes.WithPage(cfg.Page()),
		nodes.WithMode(cfg.Mode()),
		nodes.WithSorter(cfg.Sorter()),
		nodes.WithFilters(cfg.Filters()),
	}
}
