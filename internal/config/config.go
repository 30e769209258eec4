// Package config loads forge's configuration from a TOML file, environment
// variables (FORGE_ prefixed), and command-line flags, in ascending order
// of precedence (flags win), using viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all forge configuration.
type Config struct {
	Directories DirectoriesConfig `mapstructure:"directories" toml:"directories"`
	Logging     LoggingConfig     `mapstructure:"logging" toml:"logging"`
	Build       BuildConfig       `mapstructure:"build" toml:"build"`
	Behavior    BehaviorConfig    `mapstructure:"behavior" toml:"behavior"`
}

// DirectoriesConfig locates the directory trees forge reads and writes.
type DirectoriesConfig struct {
	// ModulesDir holds the cloned recipe trees (one subdirectory per
	// added repository).
	ModulesDir string `mapstructure:"modules_dir" toml:"modules_dir"`

	// ArtifactsDir holds the compiled recipe artifacts (<name>.forgec
	// files) that rebuild writes and Open loads.
	ArtifactsDir string `mapstructure:"artifacts_dir" toml:"artifacts_dir"`

	// CacheDir holds downloaded package sources.
	CacheDir string `mapstructure:"cache_dir" toml:"cache_dir"`

	// StateDir holds the catalog database (catalog.db). Tombstones sit
	// beside their recipes under ModulesDir.
	StateDir string `mapstructure:"state_dir" toml:"state_dir"`

	// HeadersDir names a directory for legacy conf.h-style headers. It
	// is part of the loaded configuration; no forge component reads
	// from it.
	HeadersDir string `mapstructure:"headers_dir" toml:"headers_dir"`
}

// LoggingConfig controls log verbosity and format.
type LoggingConfig struct {
	// Level: debug, info, warn, error.
	Level string `mapstructure:"level" toml:"level"`

	// JSON switches to structured JSON log lines (--log-json).
	JSON bool `mapstructure:"json" toml:"json"`
}

// BuildConfig controls how packages are compiled.
type BuildConfig struct {
	// Toolchain names the build tool family recipes may assume is on
	// PATH (e.g. "gcc", "clang").
	Toolchain string `mapstructure:"toolchain" toml:"toolchain"`

	// CFlags is part of the loaded configuration; the recipe
	// interpreter does not add it to the commands it runs.
	CFlags string `mapstructure:"cflags" toml:"cflags"`

	// Jobs is part of the loaded configuration; make steps run with
	// exactly the targets their recipe lists, and no -j flag is added.
	Jobs int `mapstructure:"jobs" toml:"jobs"`
}

// BehaviorConfig holds the default values for transaction-engine flags,
// overridable per invocation from the command line.
type BehaviorConfig struct {
	Rebuild       bool `mapstructure:"rebuild" toml:"rebuild"`
	Sync          bool `mapstructure:"sync" toml:"sync"`
	Force         bool `mapstructure:"force" toml:"force"`
	Pretend       bool `mapstructure:"pretend" toml:"pretend"`
	KeepFakeroot  bool `mapstructure:"keep_fakeroot" toml:"keep_fakeroot"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a setting.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	root := xdgPath("XDG_DATA_HOME", ".local/share", home, "forge")
	state := xdgPath("XDG_STATE_HOME", ".local/state", home, "forge")
	cache := xdgPath("XDG_CACHE_HOME", ".cache", home, "forge")

	return &Config{
		Directories: DirectoriesConfig{
			ModulesDir:   filepath.Join(root, "modules"),
			ArtifactsDir: filepath.Join(root, "artifacts"),
			CacheDir:     cache,
			StateDir:     state,
			HeadersDir:   filepath.Join(root, "headers"),
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		Build: BuildConfig{
			Toolchain: "gcc",
			CFlags:    "",
			Jobs:      0,
		},
		Behavior: BehaviorConfig{
			Rebuild:      false,
			Sync:         false,
			Force:        false,
			Pretend:      false,
			KeepFakeroot: false,
		},
	}
}

func xdgPath(envVar, fallbackSuffix, home, appSuffix string) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, appSuffix)
	}
	return filepath.Join(home, fallbackSuffix, appSuffix)
}

// LoadFromFile reads and validates a TOML configuration file, filling in
// defaults for any field the file omits.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Directories.ModulesDir == "" {
		return fmt.Errorf("directories.modules_dir: cannot be empty")
	}
	if c.Directories.StateDir == "" {
		return fmt.Errorf("directories.state_dir: cannot be empty")
	}
	if c.Directories.CacheDir == "" {
		return fmt.Errorf("directories.cache_dir: cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level: invalid level %q (must be one of: %s)",
			c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Build.Jobs < 0 {
		return fmt.Errorf("build.jobs: cannot be negative, got %d", c.Build.Jobs)
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
