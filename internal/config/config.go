package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env string `mapstructure:"DAYLOG_ENV"`

	Database DBConfig    `mapstructure:",squash"`
	Cache    CacheConfig `mapstructure:",squash"`
}

type DBConfig struct {
	Driver  string `mapstructure:"DAYLOG_DB_DRIVER"`
	DSN     string `mapstructure:"DAYLOG_DB_DSN"`
	MaxIdle int    `mapstructure:"DAYLOG_DB_MAX_IDLE"`
	MaxOpen int    `mapstructure:"DAYLOG_DB_MAX_OPEN"`

	// Used to assemble a Postgres DSN when DAYLOG_DB_DSN is empty.
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
}

type CacheConfig struct {
	RedisURL string        `mapstructure:"DAYLOG_REDIS_URL"`
	TTL      time.Duration `mapstructure:"DAYLOG_CACHE_TTL"`
}

var keys = []string{
	"DAYLOG_ENV",
	"DAYLOG_DB_DRIVER", "DAYLOG_DB_DSN", "DAYLOG_DB_MAX_IDLE", "DAYLOG_DB_MAX_OPEN",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"DAYLOG_REDIS_URL", "DAYLOG_CACHE_TTL",
}

// Load reads .env files (if present) and the process environment. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DAYLOG_ENV", "dev")
	v.SetDefault("DAYLOG_DB_DRIVER", "sqlite")
	v.SetDefault("DAYLOG_DB_DSN", "")
	v.SetDefault("DAYLOG_DB_MAX_IDLE", 10)
	v.SetDefault("DAYLOG_DB_MAX_OPEN", 20)
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("DAYLOG_REDIS_URL", "")
	v.SetDefault("DAYLOG_CACHE_TTL", "10m")

	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.DSN != "" {
		return
	}

	switch c.Database.Driver {
	case "sqlite":
		c.Database.DSN = "daylog.db"
	case "pgx":
		if c.Database.PostgresHost != "" {
			c.Database.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				c.Database.PostgresHost, c.Database.PostgresPort, c.Database.PostgresUser,
				c.Database.PostgresPassword, c.Database.PostgresDB)
		}
	}
}

func (c *Config) validate() error {
	switch c.Env {
	case "dev", "prod", "test":
	default:
		return fmt.Errorf("invalid DAYLOG_ENV %q (must be dev, prod, or test)", c.Env)
	}

	switch c.Database.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("invalid DAYLOG_DB_DRIVER %q (must be sqlite or pgx)", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DAYLOG_DB_DSN or POSTGRES_HOST is required for driver %s", c.Database.Driver)
	}
	if c.Database.MaxOpen < 1 {
		return fmt.Errorf("DAYLOG_DB_MAX_OPEN must be positive, got %d", c.Database.MaxOpen)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("DAYLOG_CACHE_TTL must not be negative, got %s", c.Cache.TTL)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}
