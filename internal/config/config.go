// Package config loads dutrace defaults from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// FileName is the default configuration file, looked up in the working directory.
const FileName = ".dutrace.yaml"

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "DUTRACE_"

// Config holds settings that flags did not set explicitly.
// Sizes are kept as strings so they accept human-readable units ("100kB").
type Config struct {
	Threshold string `yaml:"threshold,omitempty"`
	Capacity  string `yaml:"capacity,omitempty"`
	Goal      string `yaml:"goal,omitempty"`
	MinSize   string `yaml:"min_size,omitempty"`
	Top       int    `yaml:"top,omitempty"`
	Output    string `yaml:"output,omitempty"`
}

// Load reads the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}

		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment, without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overlays DUTRACE_* variables onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"THRESHOLD": &cfg.Threshold,
		"CAPACITY":  &cfg.Capacity,
		"GOAL":      &cfg.Goal,
		"MIN_SIZE":  &cfg.MinSize,
		"OUTPUT":    &cfg.Output,
	}

	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup(EnvPrefix + "TOP"); ok && v != "" {
		top, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sTOP: %w", EnvPrefix, err)
		}

		cfg.Top = top
	}

	return nil
}
