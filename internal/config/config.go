package config

import (
	"time"

	"github.com/phrazzld/tasktracker/internal/redact"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Notifier  NotifierConfig  `mapstructure:"notifier" yaml:"notifier" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" yaml:"log_format" validate:"omitempty,oneof=json text"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig selects the storage backend and its connection pool.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" yaml:"driver" validate:"required,oneof=postgres sqlite"`
	URL             string        `mapstructure:"url" yaml:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" yaml:"jwt_secret" validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" yaml:"token_lifetime" validate:"gte=0"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost" validate:"gte=4,lte=31"`
	ClockSkew     time.Duration `mapstructure:"clock_skew" yaml:"clock_skew" validate:"gte=0"`
}

// SchedulerConfig controls the periodic reminder sweep.
type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Interval     time.Duration `mapstructure:"interval" yaml:"interval" validate:"gte=1s"`
	Workers      int           `mapstructure:"workers" yaml:"workers" validate:"gte=1,lte=64"`
	SweepTimeout time.Duration `mapstructure:"sweep_timeout" yaml:"sweep_timeout" validate:"gt=0"`
	BatchSize    int           `mapstructure:"batch_size" yaml:"batch_size" validate:"gte=1"`
}

// NotifierConfig selects the delivery channel for reminders.
type NotifierConfig struct {
	Driver   string         `mapstructure:"driver" yaml:"driver" validate:"required,oneof=smtp telegram log"`
	SMTP     SMTPConfig     `mapstructure:"smtp" yaml:"smtp"`
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
}

// SMTPConfig holds mail relay settings. Required only when Driver is smtp.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port" validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	From     string `mapstructure:"from" yaml:"from" validate:"omitempty,email"`
	StartTLS bool   `mapstructure:"starttls" yaml:"starttls"`
}

// TelegramConfig holds bot settings. Required only when Driver is telegram.
type TelegramConfig struct {
	Token  string `mapstructure:"token" yaml:"token"`
	ChatID int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

// Redacted returns a copy with secrets masked, suitable for printing.
func (c Config) Redacted() Config {
	out := c
	out.Database.URL = redact.DSN(c.Database.URL)
	out.Auth.JWTSecret = redact.Secret(c.Auth.JWTSecret)
	out.Notifier.SMTP.Password = redact.Secret(c.Notifier.SMTP.Password)
	out.Notifier.Telegram.Token = redact.Secret(c.Notifier.Telegram.Token)
	return out
}
