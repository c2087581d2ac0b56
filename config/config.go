package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Log          LogConfig          `mapstructure:"log"`
	Returns      ReturnsConfig      `mapstructure:"returns"`
	Notification NotificationConfig `mapstructure:"notification"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// StorageConfig selects the persistence backend: postgres or memory.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LockTimeout     time.Duration `mapstructure:"lock_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// ReturnsConfig tunes the settlement engine.
type ReturnsConfig struct {
	ReturnPrefix      string        `mapstructure:"return_prefix"`
	SlipPrefix        string        `mapstructure:"slip_prefix"`
	SlipValidityDays  int           `mapstructure:"slip_validity_days"`
	SettlementTimeout time.Duration `mapstructure:"settlement_timeout"`
	LookupCacheTTL    time.Duration `mapstructure:"lookup_cache_ttl"`
	IdempotencyTTL    time.Duration `mapstructure:"idempotency_ttl"`
	InFlightTTL       time.Duration `mapstructure:"in_flight_ttl"`
	// Argon2id hash of the manager override PIN; empty disables PIN checks.
	ManagerPINHash string `mapstructure:"manager_pin_hash"`
	Timezone       string `mapstructure:"timezone"`
}

// Location resolves the business timezone used for day-based numbering.
func (r ReturnsConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

type NotificationConfig struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: RSE_.
// Nested keys use underscore: RSE_DATABASE_HOST, RSE_RETURNS_SLIP_VALIDITY_DAYS, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "returns")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.lock_timeout", "5s")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "returns-settlement-engine")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("returns.return_prefix", "RET")
	v.SetDefault("returns.slip_prefix", "EXS")
	v.SetDefault("returns.slip_validity_days", 90)
	v.SetDefault("returns.settlement_timeout", "15s")
	v.SetDefault("returns.lookup_cache_ttl", "2m")
	v.SetDefault("returns.idempotency_ttl", "24h")
	v.SetDefault("returns.in_flight_ttl", "30s")
	v.SetDefault("returns.manager_pin_hash", "")
	v.SetDefault("returns.timezone", "UTC")
	v.SetDefault("notification.url", "")
	v.SetDefault("notification.secret", "")
	v.SetDefault("notification.timeout", "10s")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("RSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver)
	}
	if c.Returns.SlipValidityDays <= 0 {
		return fmt.Errorf("returns.slip_validity_days must be positive")
	}
	if c.Returns.ReturnPrefix == "" || c.Returns.SlipPrefix == "" {
		return fmt.Errorf("returns number prefixes must not be empty")
	}
	if c.Returns.ReturnPrefix == c.Returns.SlipPrefix {
		return fmt.Errorf("returns.return_prefix and returns.slip_prefix must differ")
	}
	if _, err := c.Returns.Location(); err != nil {
		return fmt.Errorf("returns.timezone: %w", err)
	}
	return nil
}
