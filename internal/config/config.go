package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	envPrefix     = "REPORT"
	configFileEnv = "REPORT_CONFIG_FILE"
)

type Config struct {
	InputPath        string        `yaml:"input_path" envconfig:"INPUT_PATH"`
	TopN             int           `yaml:"top_n" envconfig:"TOP_N"`
	WindowDays       int           `yaml:"window_days" envconfig:"WINDOW_DAYS"`
	XLSXPath         string        `yaml:"xlsx_path" envconfig:"XLSX_PATH"`
	ProgressInterval time.Duration `yaml:"progress_interval" envconfig:"PROGRESS_INTERVAL"`
	Logger           LoggerConfig  `yaml:"logger" envconfig:"LOG"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Default returns the fixed report contract: data.csv in the working
// directory, top 3 products, a 7-day window and JSON on stdout only.
func Default() *Config {
	return &Config{
		InputPath:        "data.csv",
		TopN:             3,
		WindowDays:       7,
		ProgressInterval: time.Second,
		Logger: LoggerConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load resolves configuration with precedence defaults < YAML file < environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(configFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}

	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}

	if c.WindowDays < 1 {
		return fmt.Errorf("window_days must be at least 1, got %d", c.WindowDays)
	}

	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logger.Level)) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, strings.ToLower(c.Logger.Format)) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	return nil
}

// Window returns the rolling window length as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}
