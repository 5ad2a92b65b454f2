package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment override, e.g.
// TASKTRACKER_AUTH_JWT_SECRET for auth.jwt_secret.
const EnvPrefix = "TASKTRACKER"

// defaults registers every key with viper. AutomaticEnv only resolves keys
// viper already knows about, so each field needs an entry here.
var defaults = map[string]any{
	"server.port":                8080,
	"server.log_level":           "info",
	"server.log_format":          "json",
	"server.shutdown_timeout":    10 * time.Second,
	"database.driver":            "sqlite",
	"database.url":               "file:tasktracker.db?_foreign_keys=on",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 30 * time.Minute,
	"auth.jwt_secret":            "",
	"auth.token_lifetime":        30 * time.Minute,
	"auth.bcrypt_cost":           bcrypt.DefaultCost,
	"auth.clock_skew":            time.Duration(0),
	"scheduler.enabled":          true,
	"scheduler.interval":         60 * time.Second,
	"scheduler.workers":          4,
	"scheduler.sweep_timeout":    50 * time.Second,
	"scheduler.batch_size":       500,
	"notifier.driver":            "log",
	"notifier.smtp.host":         "",
	"notifier.smtp.port":         587,
	"notifier.smtp.username":     "",
	"notifier.smtp.password":     "",
	"notifier.smtp.from":         "",
	"notifier.smtp.starttls":     true,
	"notifier.telegram.token":    "",
	"notifier.telegram.chat_id":  int64(0),
}

// Load reads configuration from defaults, an optional config file and
// environment variables, in increasing order of precedence.
//
// If configFile is empty, ./config.yaml is used when present. An explicitly
// named file that cannot be read is an error.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules that depend on the
// selected notifier driver.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Notifier.Driver {
	case "smtp":
		if c.Notifier.SMTP.Host == "" || c.Notifier.SMTP.From == "" {
			return fmt.Errorf("config validation failed: notifier.smtp.host and notifier.smtp.from are required for the smtp driver")
		}
	case "telegram":
		if c.Notifier.Telegram.Token == "" || c.Notifier.Telegram.ChatID == 0 {
			return fmt.Errorf("config validation failed: notifier.telegram.token and notifier.telegram.chat_id are required for the telegram driver")
		}
	}

	if c.Scheduler.SweepTimeout > c.Scheduler.Interval {
		return fmt.Errorf("config validation failed: scheduler.sweep_timeout (%s) must not exceed scheduler.interval (%s)",
			c.Scheduler.SweepTimeout, c.Scheduler.Interval)
	}

	return nil
}
