package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/proxyshop/internal/shared/config"
	"github.com/orris-inc/proxyshop/internal/shared/utils"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Telegram     sharedConfig.TelegramConfig     `mapstructure:"telegram"`
	Provisioning sharedConfig.ProvisioningConfig `mapstructure:"provisioning"`
	Cron         sharedConfig.CronConfig         `mapstructure:"cron"`
	Reconciler   sharedConfig.ReconcilerConfig   `mapstructure:"reconciler"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configPath, or configs/config.yaml when configPath is empty,
// and overlays PROXYSHOP_* environment variables. Only an explicit
// configPath must exist.
func Load(env, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("PROXYSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The external scheduler shares the bare CRON_SECRET variable
	if err := v.BindEnv("cron.secret", "PROXYSHOP_CRON_SECRET", "CRON_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind cron secret: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", GinMode(env))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := utils.ValidateStruct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// GinMode maps a deployment environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "UTC")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "proxyshop_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@proxyshop.local")
	v.SetDefault("email.from_name", "Proxyshop")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")

	// Provisioning defaults
	v.SetDefault("provisioning.base_url", "http://localhost:9000/v1")
	v.SetDefault("provisioning.api_key", "")
	v.SetDefault("provisioning.timeout_seconds", 10)
	v.SetDefault("provisioning.max_retries", 2)
	v.SetDefault("provisioning.requests_per_second", 5)

	// Cron defaults, schedule empty means external trigger only
	v.SetDefault("cron.secret", "")
	v.SetDefault("cron.schedule", "")
	v.SetDefault("cron.run_timeout_minutes", 10)
	v.SetDefault("cron.rate_limit_per_minute", 0)

	v.SetDefault("reconciler.notify_window_hours", 72)
	v.SetDefault("reconciler.notify_dedup_hours", 24)
	v.SetDefault("reconciler.call_timeout_seconds", 15)
}
