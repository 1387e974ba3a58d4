// Package config holds the taskread settings: defaults, an optional YAML
// file, TASKREAD_* environment overrides and command-line flags, applied in
// that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPrompt = "taskmaster> "
	DefaultSignal = "USR1"

	envPrefix = "TASKREAD_"
)

// Signals that may trigger a read session.
var Signals = []string{"USR1", "USR2", "HUP"}

// Config represents the taskread configuration.
type Config struct {
	Prompt    string `yaml:"prompt"`
	Signal    string `yaml:"signal"`
	Once      bool   `yaml:"once"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns a configuration with default values.
func Default() Config {
	return Config{
		Prompt:    DefaultPrompt,
		Signal:    DefaultSignal,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns ~/.taskread/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return filepath.Join(".taskread", "config.yaml")
	}
	return filepath.Join(home, ".taskread", "config.yaml")
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TASKREAD_PROMPT, TASKREAD_SIGNAL,
// TASKREAD_ONCE, TASKREAD_LOG_FILE, TASKREAD_LOG_LEVEL and
// TASKREAD_LOG_FORMAT.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	strs := map[string]*string{
		"PROMPT":     &c.Prompt,
		"SIGNAL":     &c.Signal,
		"LOG_FILE":   &c.LogFile,
		"LOG_LEVEL":  &c.LogLevel,
		"LOG_FORMAT": &c.LogFormat,
	}
	for key, field := range strs {
		if v, ok := lookupEnv(envPrefix + key); ok {
			*field = v
		}
	}
	if v, ok := lookupEnv(envPrefix + "ONCE"); ok {
		once, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sONCE %q: %w", envPrefix, v, err)
		}
		c.Once = once
	}
	return nil
}

// SignalName returns the configured trigger signal without its SIG prefix.
func (c Config) SignalName() string {
	name := strings.ToUpper(strings.TrimSpace(c.Signal))
	return strings.TrimPrefix(name, "SIG")
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	name := c.SignalName()
	found := false
	for _, s := range Signals {
		if s == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unsupported signal %q (want one of %s)", c.Signal, strings.Join(Signals, ", "))
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}
