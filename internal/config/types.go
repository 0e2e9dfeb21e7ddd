// Package config provides configuration management for sqlbench.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlbench/pkg/core"
	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

// Config holds all sqlbench configuration options.
type Config struct {
	Engine    core.EngineConfig `koanf:"engine"`
	Seed      bool              `koanf:"seed"`
	LogLevel  string            `koanf:"log_level"`
	LogFormat string            `koanf:"log_format"`
	Output    string            `koanf:"output"`
	Server    ServerConfig      `koanf:"server"`
}

// ServerConfig holds configuration for the HTTP API server.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// Default configuration values.
const (
	DefaultEngine    = engine.DefaultType
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultOutput    = "table"
	DefaultAddr      = "127.0.0.1:8765"
)

// OutputFormats lists the supported result output formats.
var OutputFormats = []string{"table", "json", "csv", "md", "yaml"}

// LogFormats lists the supported log handler formats.
var LogFormats = []string{"text", "json"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Engine:    core.EngineConfig{Type: DefaultEngine},
		Seed:      true,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Output:    DefaultOutput,
		Server:    ServerConfig{Addr: DefaultAddr},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !engine.IsRegistered(c.Engine.Type) {
		return &engine.UnknownEngineError{Type: c.Engine.Type, Available: engine.ListEngines()}
	}
	if !slices.Contains(OutputFormats, strings.ToLower(c.Output)) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("unknown log format %q (expected one of %s)", c.LogFormat, strings.Join(LogFormats, ", "))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
