// Package config loads and validates the monk configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/monk-manager/monk/pkg/ai"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized at load time.
const (
	EnvConfigPath = "MONK_CONFIG"
	EnvAPIKey     = "ANTHROPIC_API_KEY"
	EnvLogLevel   = "MONK_LOG_LEVEL"
)

// Config is the top-level monk configuration.
type Config struct {
	AI       ai.ModelConfig `yaml:"ai"`
	Logging  LoggingConfig  `yaml:"logging"`
	Commands CommandsConfig `yaml:"commands"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CommandsConfig holds per-command defaults.
type CommandsConfig struct {
	DefaultLanguage string `yaml:"default_language"`
	DefaultFormat   string `yaml:"default_format"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		AI: ai.ModelConfig{
			Provider:    "anthropic",
			ModelName:   "claude-3-5-haiku-20241022",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Commands: CommandsConfig{
			DefaultLanguage: "go",
			DefaultFormat:   "markdown",
		},
	}
}

// Load reads and parses a YAML config file at the given path, layered over
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, discovering one when path is empty.
// A missing file yields the defaults; parse failures are still returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = Discover()
	}
	if path == "" {
		return Default(), nil
	}

	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Discover finds a config file: the MONK_CONFIG environment variable first,
// then standard filenames in the working directory. Returns "" when nothing
// is found.
func Discover() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, name := range []string{"monk.yaml", "monk.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ApplyEnv overlays environment variables on top of file values. The API
// key always comes from the environment when set, so credentials need not
// live in the config file.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.AI.APIKey = key
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks the config for required fields and returns a descriptive
// error if any are missing or invalid. Any failure here is fatal at
// startup; the conversation never begins with a bad config.
func (c *Config) Validate() error {
	var errs []error

	if c.AI.Provider == "" {
		errs = append(errs, errors.New("ai.provider is required"))
	}
	if c.AI.ModelName == "" {
		errs = append(errs, errors.New("ai.model_name is required"))
	}
	if c.AI.APIKey == "" {
		errs = append(errs, errors.New("AI API key is required"))
	}
	if c.AI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("ai.max_tokens must be greater than 0, got %d", c.AI.MaxTokens))
	}
	if c.AI.Temperature < 0.0 || c.AI.Temperature > 1.0 {
		errs = append(errs, fmt.Errorf("ai.temperature must be between 0.0 and 1.0, got %g", c.AI.Temperature))
	}
	if f := c.Commands.DefaultFormat; f != "" && f != "markdown" && f != "plain" {
		errs = append(errs, fmt.Errorf("commands.default_format must be markdown or plain, got %q", f))
	}

	return errors.Join(errs...)
}
