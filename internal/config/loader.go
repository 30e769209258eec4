package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader resolves configuration from a file, the environment, and
// command-line flags, in that ascending order of precedence.
type Loader struct {
	configPath string
}

// NewLoader creates a loader reading the TOML file at configPath, if it
// exists.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads the config file if present, otherwise falls back to
// defaults. Precedence: file > defaults.
func (l *Loader) Load() (*Config, error) {
	if fileExists(l.configPath) {
		return LoadFromFile(l.configPath)
	}
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithEnv loads the file (or defaults) and applies FORGE_-prefixed
// environment overrides. Precedence: env > file > defaults.
func (l *Loader) LoadWithEnv() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("FORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	applyEnvOverrides(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithFlags loads the file and environment, then applies flag
// overrides taken from a parsed cobra flag set. Precedence:
// flags > env > file > defaults.
func (l *Loader) LoadWithFlags(flags map[string]interface{}) (*Config, error) {
	cfg, err := l.LoadWithEnv()
	if err != nil {
		return nil, err
	}

	applyFlagOverrides(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func bindEnvKeys(v *viper.Viper) {
	v.BindEnv("directories.modules_dir")
	v.BindEnv("directories.artifacts_dir")
	v.BindEnv("directories.cache_dir")
	v.BindEnv("directories.state_dir")
	v.BindEnv("directories.headers_dir")

	v.BindEnv("logging.level")
	v.BindEnv("logging.json")

	v.BindEnv("build.toolchain")
	v.BindEnv("build.cflags")
	v.BindEnv("build.jobs")

	v.BindEnv("behavior.rebuild")
	v.BindEnv("behavior.sync")
	v.BindEnv("behavior.force")
	v.BindEnv("behavior.pretend")
	v.BindEnv("behavior.keep_fakeroot")
}

func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if v.IsSet("directories.modules_dir") {
		cfg.Directories.ModulesDir = v.GetString("directories.modules_dir")
	}
	if v.IsSet("directories.artifacts_dir") {
		cfg.Directories.ArtifactsDir = v.GetString("directories.artifacts_dir")
	}
	if v.IsSet("directories.cache_dir") {
		cfg.Directories.CacheDir = v.GetString("directories.cache_dir")
	}
	if v.IsSet("directories.state_dir") {
		cfg.Directories.StateDir = v.GetString("directories.state_dir")
	}
	if v.IsSet("directories.headers_dir") {
		cfg.Directories.HeadersDir = v.GetString("directories.headers_dir")
	}

	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.json") {
		cfg.Logging.JSON = v.GetBool("logging.json")
	}

	if v.IsSet("build.toolchain") {
		cfg.Build.Toolchain = v.GetString("build.toolchain")
	}
	if v.IsSet("build.cflags") {
		cfg.Build.CFlags = v.GetString("build.cflags")
	}
	if v.IsSet("build.jobs") {
		cfg.Build.Jobs = v.GetInt("build.jobs")
	}

	if v.IsSet("behavior.rebuild") {
		cfg.Behavior.Rebuild = v.GetBool("behavior.rebuild")
	}
	if v.IsSet("behavior.sync") {
		cfg.Behavior.Sync = v.GetBool("behavior.sync")
	}
	if v.IsSet("behavior.force") {
		cfg.Behavior.Force = v.GetBool("behavior.force")
	}
	if v.IsSet("behavior.pretend") {
		cfg.Behavior.Pretend = v.GetBool("behavior.pretend")
	}
	if v.IsSet("behavior.keep_fakeroot") {
		cfg.Behavior.KeepFakeroot = v.GetBool("behavior.keep_fakeroot")
	}
}

// applyFlagOverrides maps cobra flag values, keyed by flag name, onto the
// configuration. Only flags explicitly present in the map are applied.
func applyFlagOverrides(cfg *Config, flags map[string]interface{}) {
	if val, ok := flags["rebuild"].(bool); ok && val {
		cfg.Behavior.Rebuild = true
	}
	if val, ok := flags["sync"].(bool); ok && val {
		cfg.Behavior.Sync = true
	}
	if val, ok := flags["force"].(bool); ok && val {
		cfg.Behavior.Force = true
	}
	if val, ok := flags["pretend"].(bool); ok && val {
		cfg.Behavior.Pretend = true
	}
	if val, ok := flags["keep-fakeroot"].(bool); ok && val {
		cfg.Behavior.KeepFakeroot = true
	}
	if val, ok := flags["log-json"].(bool); ok && val {
		cfg.Logging.JSON = true
	}
	if val, ok := flags["log-level"].(string); ok && val != "" {
		cfg.Logging.Level = val
	}
	if val, ok := flags["modules-dir"].(string); ok && val != "" {
		cfg.Directories.ModulesDir = val
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
