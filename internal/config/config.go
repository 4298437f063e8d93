package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config groups application settings read from the environment (and an optional .env file).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Import   ImportConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Env      string
	Port     string
	LogLevel string
}

// DBConfig selects the gorm dialect. Driver is "postgres" or "sqlite".
type DBConfig struct {
	Driver string
	DSN    string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RabbitMQConfig is disabled when URL is empty.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// RedisConfig is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type ImportConfig struct {
	MaxBytes int64
}

// SeedConfig holds the bootstrap admin account created by the seed command.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration through viper. Environment variables win over defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		Import: ImportConfig{
			MaxBytes: v.GetInt64("IMPORT_MAX_BYTES"),
		},
		Seed: SeedConfig{
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "bistro.db")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("IMPORT_MAX_BYTES", 2*1024*1024)
	v.SetDefault("ADMIN_EMAIL", "admin@email.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
}

// NewViper returns a viper instance with the application defaults applied, without reading the
// environment. Tests use it to build configs deterministically.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Import.MaxBytes <= 0 {
		return fmt.Errorf("IMPORT_MAX_BYTES must be positive, got %d", c.Import.MaxBytes)
	}
	return nil
}
