package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPrompt      = ": "
	DefaultHistoryName = ".smallsh_history"
)

type Config struct {
	Prompt      string `yaml:"prompt" validate:"required"`
	HomeDir     string `yaml:"home_dir" validate:"required"`
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a YAML configuration file from fs. Fields missing from the file
// fall back to the defaults.
func Load(fs afero.Fs, file string) (*Config, error) {
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	return cfg, nil
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return validate.Struct(c)
}

func (c *Config) fillDefaults() error {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}

	if c.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.HomeDir = home
	}

	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, DefaultHistoryName)
	}
	return nil
}
