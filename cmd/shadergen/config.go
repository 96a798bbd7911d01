package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergen/backend"
	"github.com/gogpu/shadergen/layout"
)

// Config is the CLI configuration as read from shadergen.yaml.
type Config struct {
	Output        string   `yaml:"output"`
	Targets       []string `yaml:"targets"`
	HostPacking   string   `yaml:"host_packing"`
	Parallelism   int      `yaml:"parallelism"`
	LogLevel      string   `yaml:"log_level"`
	ProcessorArgs string   `yaml:"processor_args"`
}

func defaultConfig() Config {
	return Config{Output: ".", HostPacking: "sequential", LogLevel: "warn"}
}

// LoadConfig loads .env if present, then the YAML file at path, then
// applies SHADERGEN_* environment overrides. A missing file is not an
// error when optional is set.
func LoadConfig(path string, optional bool) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, err
	}

	if v := os.Getenv("SHADERGEN_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("SHADERGEN_TARGETS"); v != "" {
		cfg.Targets = strings.Split(v, ",")
	}
	if v := os.Getenv("SHADERGEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SHADERGEN_PROCESSOR_ARGS"); v != "" {
		cfg.ProcessorArgs = v
	}
	if v := os.Getenv("SHADERGEN_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHADERGEN_PARALLELISM: %w", err)
		}
		cfg.Parallelism = n
	}
	return cfg, nil
}

// targets parses the configured target names; none selects all.
func (c Config) targets() ([]backend.Target, error) {
	return backend.ParseTargets(strings.Join(c.Targets, ","))
}

func (c Config) hostPacking() (layout.HostPacking, error) {
	switch strings.ToLower(c.HostPacking) {
	case "", "sequential":
		return layout.HostPackingSequential, nil
	case "natural":
		return layout.HostPackingNatural, nil
	}
	return 0, fmt.Errorf("unknown host packing %q", c.HostPacking)
}

func (c Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
