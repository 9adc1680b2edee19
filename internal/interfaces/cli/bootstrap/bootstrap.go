// Package bootstrap loads config and opens shared resources for CLI commands.
package bootstrap

import (
	"fmt"

	"github.com/orris-inc/proxyshop/internal/infrastructure/config"
	"github.com/orris-inc/proxyshop/internal/infrastructure/database"
	"github.com/orris-inc/proxyshop/internal/shared/biztime"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// Init loads config, initializes the logger and business timezone, and
// opens the database. Callers defer database.Close.
func Init(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, err := InitWithoutDatabase(env, configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// InitWithoutDatabase is Init for commands that never touch the database.
func InitWithoutDatabase(env, configPath string) (*config.Config, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Business timezone drives cron evaluation and displayed dates
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, nil
}
