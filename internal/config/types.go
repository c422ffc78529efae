package config

import (
	"time"

	"github.com/rileyhilliard/raytop/internal/nodes"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

const (
	// DefaultAddress is the dashboard address of a local cluster.
	DefaultAddress = "http://127.0.0.1:8265"

	// DefaultTimeout bounds a single node list request.
	DefaultTimeout = 10 * time.Second

	// MinInterval is the shortest allowed poll interval.
	MinInterval = 500 * time.Millisecond
)

// Config represents the complete .raytop.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Address is the dashboard base URL, e.g. http://head-node:8265.
	Address string `yaml:"address" mapstructure:"address"`

	// Interval is the delay between a completed fetch and the next one.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds each request to the dashboard.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// SSH optionally tunnels dashboard requests through this host.
	// Can be: hostname, user@hostname, or SSH config alias.
	SSH string `yaml:"ssh" mapstructure:"ssh"`

	View   ViewConfig   `yaml:"view" mapstructure:"view"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// ViewConfig holds the initial view parameters of the node list.
type ViewConfig struct {
	// Mode is "table" or "card".
	Mode string `yaml:"mode" mapstructure:"mode"`

	PageSize int        `yaml:"page_size" mapstructure:"page_size"`
	Sort     SortConfig `yaml:"sort" mapstructure:"sort"`

	// Filters maps a field (hostname, ip, state) to a substring.
	Filters map[string]string `yaml:"filters" mapstructure:"filters"`
}

// SortConfig selects the initial user sorter.
type SortConfig struct {
	Key  string `yaml:"key" mapstructure:"key"`
	Desc bool   `yaml:"desc" mapstructure:"desc"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Address:  DefaultAddress,
		Interval: nodes.DefaultInterval,
		Timeout:  DefaultTimeout,
		View: ViewConfig{
			Mode:     string(nodes.ModeTable),
			PageSize: nodes.DefaultPageSize,
			Filters:  map[string]string{},
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// Sorter returns the configured user sorter. Call Validate first; an
// unknown key falls back to no sorter.
func (c *Config) Sorter() nodes.Sorter {
	key, err := nodes.ParseSortKey(c.View.Sort.Key)
	if err != nil {
		key = nodes.SortNone
	}
	return nodes.Sorter{Key: key, Desc: c.View.Sort.Desc}
}

// Filters returns the configured filters in field order. Unknown fields
// are skipped. An empty value is kept: it still requires the field to be set.
func (c *Config) Filters() nodes.Filters {
	var f nodes.Filters
	for _, key := range nodes.FilterKeys() {
		if val, ok := c.View.Filters[key.String()]; ok {
			f = f.With(key, val)
		}
	}
	return f
}

// Mode returns the configured display mode, defaulting to table.
func (c *Config) Mode() nodes.DisplayMode {
	m, err := nodes.ParseDisplayMode(c.View.Mode)
	if err != nil {
		return nodes.ModeTable
	}
	return m
}

// Page returns the initial page state.
func (c *Config) Page() nodes.PageState {
	p := nodes.DefaultPageState()
	if c.View.PageSize > 0 {
		p.PageSize = c.View.PageSize
	}
	return p
}
