package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgepm/forge/internal/adapters"
	"github.com/forgepm/forge/internal/config"
	"github.com/forgepm/forge/pkg/forge"
)

// globalConfig holds the persistent flags shared by every subcommand.
type globalConfig struct {
	configPath   string
	rebuild      bool
	sync         bool
	force        bool
	only         bool
	pretend      bool
	keepFakeroot bool
	logJSON      bool
	noColor      bool
}

var globalCfg globalConfig

// NewRootCommand builds the forge cobra root command and registers
// every verb from spec.md §6.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "forge",
		Short:         "Source-based package manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n\n", err)
		_ = cmd.Usage()
		return err
	})

	flags := root.PersistentFlags()
	flags.StringVar(&globalCfg.configPath, "config", "", "Path to forge config.toml (default: XDG config dir)")
	flags.BoolVar(&globalCfg.rebuild, "rebuild", false, "Force recipe recompilation before running the command")
	flags.BoolVar(&globalCfg.sync, "sync", false, "Pull every recipe repository before running the command")
	flags.BoolVar(&globalCfg.force, "force", false, "Force the operation (skip up-to-date/retain checks)")
	flags.BoolVar(&globalCfg.only, "only", false, "Check that each named package has a loaded recipe before installing (dependencies are still installed)")
	flags.BoolVar(&globalCfg.pretend, "pretend", false, "Run install/uninstall without committing to the live root")
	flags.BoolVar(&globalCfg.keepFakeroot, "keep-fakeroot", false, "Retain the fakeroot staging tree after the transaction")
	flags.BoolVar(&globalCfg.logJSON, "log-json", false, "Emit structured JSON logs instead of console output")
	flags.BoolVar(&globalCfg.noColor, "no-color", false, "Accepted; does not change log output")

	root.AddCommand(
		newInstallCommand(),
		newUninstallCommand(),
		newUpdateCommand(),
		newCleanCommand(),
		newListCommand(),
		newSearchCommand(),
		newDepsCommand(),
		newListDepsCommand(),
		newFilesCommand(),
		newInfoCommand(),
		newNewCommand(),
		newEditCommand(),
		newDropCommand(),
		newRestoreCommand(),
		newAddRepoCommand(),
		newDropRepoCommand(),
		newSaveDepCommand(),
	)

	return root
}

// defaultConfigPath returns the XDG-conventional forge config file path.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "forge", "config.toml")
	}
	return filepath.Join(home, ".config", "forge", "config.toml")
}

// loadConfig resolves forge's configuration from file, environment, and
// the global flags relevant to config loading itself.
func loadConfig() (*config.Config, error) {
	path := globalCfg.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	loader := config.NewLoader(path)
	cfg, err := loader.LoadWithEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg.Logging.JSON = cfg.Logging.JSON || globalCfg.logJSON
	return cfg, nil
}

// newClient builds a forge.Client from the resolved configuration,
// applying --rebuild and --sync before returning, and defaulting to the
// real OS filesystem and a console logger.
func newClient(ctx context.Context) (*forge.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var logger = loggerFor(cfg)
	client, err := forge.Open(ctx, cfg, forge.Options{
		Logger:       logger,
		Pretend:      globalCfg.pretend,
		KeepFakeroot: globalCfg.keepFakeroot,
	})
	if err != nil {
		return nil, err
	}

	if globalCfg.sync {
		if err := client.Sync(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("sync: %w", err)
		}
	}
	if globalCfg.rebuild {
		if _, err := client.Rebuild(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("rebuild: %w", err)
		}
	}
	return client, nil
}

func loggerFor(cfg *config.Config) *adapters.SlogLogger {
	if cfg.Logging.JSON {
		return adapters.NewJSONLogger(os.Stderr, cfg.Logging.Level)
	}
	return adapters.NewConsoleLogger(os.Stderr, cfg.Logging.Level)
}
