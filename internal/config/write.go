package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/raytop/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config. Durations are written as
// strings ("4s") rather than yaml.v3's integer nanoseconds.
type fileConfig struct {
	Version  int          `yaml:"version"`
	Address  string       `yaml:"address"`
	Interval string       `yaml:"interval"`
	Timeout  string       `yaml:"timeout"`
	SSH      string       `yaml:"ssh,omitempty"`
	View     fileView     `yaml:"view"`
	Output   OutputConfig `yaml:"output"`
}

type fileView struct {
	Mode     string            `yaml:"mode"`
	PageSize int               `yaml:"page_size"`
	Sort     SortConfig        `yaml:"sort"`
	Filters  map[string]string `yaml:"filters,omitempty"`
}

const fileHeader = "raytop configuration. Environment variables like RAYTOP_ADDRESS override these values."

// Marshal renders cfg as YAML with a short header comment.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		Version:  cfg.Version,
		Address:  cfg.Address,
		Interval: cfg.Interval.String(),
		Timeout:  cfg.Timeout.String(),
		SSH:      cfg.SSH,
		View: fileView{
			Mode:     cfg.View.Mode,
			PageSize: cfg.View.PageSize,
			Sort:     cfg.View.Sort,
			Filters:  cfg.View.Filters,
		},
		Output: cfg.Output,
	}

	var node yaml.Node
	if err := node.Encode(fc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	doc := yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: fileHeader,
		Content:     []*yaml.Node{&node},
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path, creating parent directories. An existing file is
// only replaced when overwrite is set.
func Write(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Pass --force to overwrite it")
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't serialize config",
			"This is unexpected - check the values you entered")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create config directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config file",
			"Check permissions on "+path)
	}
	return nil
}
