package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SQLBENCH_"

// configFileNames are searched in the working directory when no file is given.
var configFileNames = []string{"sqlbench.yaml", "sqlbench.yml"}

// flagKeys maps CLI flag names to config keys where they differ.
var flagKeys = map[string]string{
	"engine":    "engine.type",
	"log-level": "log_level",
	"no-seed":   "seed",
	"addr":      "server.addr",
}

// nestedEnvSections are config sections addressable from the environment.
// SQLBENCH_ENGINE_TYPE -> engine.type, SQLBENCH_SERVER_ADDR -> server.addr
var nestedEnvSections = []string{"engine", "server"}

// Loader loads configuration and remembers which file it used.
type Loader struct {
	k        *koanf.Koanf
	fileUsed string
}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{k: koanf.New(".")}
}

// FileUsed returns the path of the config file loaded, if any.
func (l *Loader) FileUsed() string {
	return l.fileUsed
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sqlbench.yaml > sqlbench.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return NewLoader().Load(cfgFile, flags)
}

// Load performs a fresh load. Only flags that were explicitly set
// override lower layers.
func (l *Loader) Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	l.k = koanf.New(".")

	// 1. Defaults
	if err := l.k.Load(confmap.Provider(map[string]any{
		"engine.type": DefaultEngine,
		"seed":        true,
		"log_level":   DefaultLogLevel,
		"log_format":  DefaultLogFormat,
		"output":      DefaultOutput,
		"server.addr": DefaultAddr,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	l.fileUsed = findConfigFile(cfgFile)
	if l.fileUsed != "" {
		if err := l.k.Load(file.Provider(l.fileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", l.fileUsed, err)
		}
	}

	// 3. Environment variables
	if err := l.k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := l.k.Load(posflag.ProviderWithFlag(flags, ".", l.k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			val := posflag.FlagVal(flags, f)
			if f.Name == "no-seed" {
				noSeed, _ := val.(bool)
				return key, !noSeed
			}
			return key, val
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Engine.Type = strings.ToLower(cfg.Engine.Type)
	cfg.Output = strings.ToLower(cfg.Output)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// envKey transforms SQLBENCH_LOG_LEVEL -> log_level and
// SQLBENCH_ENGINE_TYPE -> engine.type.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range nestedEnvSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}
