package config

import "fmt"

type ServerConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Mode     string `mapstructure:"mode" validate:"oneof=debug release test"`
	Timezone string `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"min=1,max=65535"`
	Username        string `mapstructure:"username" validate:"required"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN stores and reads timestamps in UTC.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host" validate:"required_if=Enabled true"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" validate:"required_if=Enabled true,omitempty,email"`
	FromName     string `mapstructure:"from_name"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token" validate:"required_if=Enabled true"`
}

// ProvisioningConfig configures the upstream proxy provider API.
type ProvisioningConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"min=1"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
}

// CronConfig configures the auto-renew trigger. An empty Secret leaves the
// HTTP trigger unauthenticated.
type CronConfig struct {
	Secret             string `mapstructure:"secret"`
	Schedule           string `mapstructure:"schedule"`
	RunTimeoutMinutes  int    `mapstructure:"run_timeout_minutes" validate:"min=1"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute" validate:"min=0"`
}

type ReconcilerConfig struct {
	NotifyWindowHours  int `mapstructure:"notify_window_hours" validate:"min=1"`
	NotifyDedupHours   int `mapstructure:"notify_dedup_hours" validate:"min=1"`
	CallTimeoutSeconds int `mapstructure:"call_timeout_seconds" validate:"min=1"`
}
