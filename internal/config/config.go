// Package config loads server and tool configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const minJWTLength = 32

// Config is the full runtime configuration.
type Config struct {
	Port      int    `mapstructure:"PORT"`
	DBPath    string `mapstructure:"DB_PATH"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	Auth  AuthConfig  `mapstructure:",squash"`
	Lock  LockConfig  `mapstructure:",squash"`
	Event EventConfig `mapstructure:",squash"`

	// RecalcConcurrency bounds how many groups are rebuilt at once by
	// operator-triggered bulk recalculation.
	RecalcConcurrency int `mapstructure:"RECALC_CONCURRENCY"`
}

// AuthConfig controls bearer-token validation.
type AuthConfig struct {
	JWTSecretKey  string        `mapstructure:"JWT_SECRET_KEY"`
	TokenDuration time.Duration `mapstructure:"TOKEN_DURATION"`
	// Disabled trusts an X-User-ID header instead of a token. Development only.
	Disabled bool `mapstructure:"AUTH_DISABLED"`
}

// LockConfig selects the per-group lock backend. An empty RedisAddress means
// in-process locks.
type LockConfig struct {
	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	TTL           time.Duration `mapstructure:"LOCK_TTL"`
	RetryInterval time.Duration `mapstructure:"LOCK_RETRY_INTERVAL"`
}

// EventConfig configures balance-change events. An empty AMQPURL disables them.
type EventConfig struct {
	AMQPURL    string `mapstructure:"AMQP_URL"`
	Exchange   string `mapstructure:"AMQP_EXCHANGE"`
	RoutingKey string `mapstructure:"AMQP_ROUTING_KEY"`
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset, and validates the result.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "./data/ledger.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("TOKEN_DURATION", 24*time.Hour)
	v.SetDefault("AUTH_DISABLED", false)
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", 30*time.Second)
	v.SetDefault("LOCK_RETRY_INTERVAL", 50*time.Millisecond)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "ledger")
	v.SetDefault("AMQP_ROUTING_KEY", "balances.changed")
	v.SetDefault("RECALC_CONCURRENCY", 4)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of text, json", c.LogFormat))
	}
	if !c.Auth.Disabled && len(c.Auth.JWTSecretKey) < minJWTLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d characters", minJWTLength))
	}
	if c.Auth.TokenDuration <= 0 {
		errs = append(errs, errors.New("TOKEN_DURATION must be positive"))
	}
	if c.Lock.TTL <= 0 {
		errs = append(errs, errors.New("LOCK_TTL must be positive"))
	}
	if c.Lock.RetryInterval <= 0 {
		errs = append(errs, errors.New("LOCK_RETRY_INTERVAL must be positive"))
	}
	if c.Event.AMQPURL != "" && c.Event.Exchange == "" {
		errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
	}
	if c.RecalcConcurrency < 1 {
		errs = append(errs, errors.New("RECALC_CONCURRENCY must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
