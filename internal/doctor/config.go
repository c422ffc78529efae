package doctor

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/errors"
)

// ConfigFileCheck reports which config file raytop would load.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return failFromError(c.Name(), err, "Check the --config path or run 'raytop init'")
	}

	// Defaults work against a local cluster, so a missing file is only a warning.
	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'raytop init' to create a .raytop.yaml config file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

func (c *ConfigFileCheck) Fix() error {
	return nil // 'raytop init' writes the file
}

// ConfigSchemaCheck loads and validates the config, environment overrides included.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	cfg, _, err := config.Resolve(c.ConfigPath)
	if err != nil {
		return failFromError(c.Name(), err, "Check the YAML syntax in your config file")
	}

	if err := config.Validate(cfg); err != nil {
		return failFromError(c.Name(), err, "Fix the configuration errors in your .raytop.yaml")
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Schema valid (polling %s every %s)", cfg.Address, cfg.Interval),
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}

// failFromError turns an error into a failed result, taking the message and
// suggestion from structured errors.
func failFromError(name string, err error, fallback string) CheckResult {
	r := CheckResult{
		Name:       name,
		Status:     StatusFail,
		Message:    errors.Summarize(err),
		Suggestion: fallback,
	}
	var se *errors.Error
	if stderrors.As(err, &se) && se.Suggestion != "" {
		r.Suggestion = se.Suggestion
	}
	return r
}
