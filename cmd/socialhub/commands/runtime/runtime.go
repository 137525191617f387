// Package runtime loads the configuration and logger shared by commands.
package runtime

import (
	"context"
	"fmt"

	"github.com/ncobase/socialhub/config"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/version"
)

// ConfigPath is bound to the persistent --config flag.
var ConfigPath string

// Setup loads the configuration and initializes the logger. The returned
// cleanup flushes the logger.
func Setup(ctx context.Context) (*config.Config, *logger.Logger, func(), error) {
	cfg, err := config.LoadConfig(ConfigPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.StdLogger()
	if cfg.Version == "" {
		cfg.Version = version.GetVersionInfo().Version
	}
	log.SetVersion(cfg.Version)

	cleanup, err := log.Init(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Debug(ctx, "Configuration loaded", "run_mode", cfg.RunMode, "config", cfg.Viper.ConfigFileUsed())
	return cfg, log, cleanup, nil
}
