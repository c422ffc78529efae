package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/raytop/internal/api"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/nodes"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but raytop only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest raytop release.")
	}

	if _, err := api.ParseAddress(cfg.Address); err != nil {
		return err
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use at least %s so the dashboard isn't hammered.", MinInterval))
	}
	if cfg.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Request timeout must be positive, got %s", cfg.Timeout),
			"Set timeout to something like 10s.")
	}

	if strings.ContainsAny(cfg.SSH, " \t") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("SSH host '%s' contains whitespace", cfg.SSH),
			"Use a hostname, user@hostname, or an alias from ~/.ssh/config.")
	}

	if err := validateView(cfg.View); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'view' section in your .raytop.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .raytop.yaml.")
	}

	return nil
}

func validateView(v ViewConfig) error {
	if v.Mode != "" {
		if _, err := nodes.ParseDisplayMode(v.Mode); err != nil {
			return err
		}
	}
	if v.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", v.PageSize)
	}
	if _, err := nodes.ParseSortKey(v.Sort.Key); err != nil {
		return err
	}
	for key := range v.Filters {
		if _, err := nodes.ParseFilterKey(key); err != nil {
			return err
		}
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("output.color must be auto, always, or never, got '%s'", o.Color)
}
