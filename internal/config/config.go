package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL   string        `mapstructure:"DATABASE_URL"`
	HTTPPort      string        `mapstructure:"HTTP_PORT" validate:"required,numeric"`
	LogLevel      string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	JWTSecret     string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	JWTExpiresIn  time.Duration `mapstructure:"JWT_EXPIRES_IN" validate:"gt=0"`
	AdminUserName string        `mapstructure:"ADMIN_USERNAME" validate:"required"`
	AdminPassword string        `mapstructure:"ADMIN_PASSWORD" validate:"min=6,max=255"`
	BcryptCost    int           `mapstructure:"BCRYPT_COST" validate:"min=4,max=31"`
}

var keys = map[string]any{
	"DATABASE_URL":   "",
	"HTTP_PORT":      "8080",
	"LOG_LEVEL":      "info",
	"JWT_SECRET":     "",
	"JWT_EXPIRES_IN": 24 * time.Hour,
	"ADMIN_USERNAME": "admin",
	"ADMIN_PASSWORD": "changeme",
	"BCRYPT_COST":    12,
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper resolves the configuration from v, which may already carry
// values set by flags or tests.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for k, def := range keys {
		v.SetDefault(k, def)
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// RequireDatabase reports a missing DATABASE_URL.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}
	return nil
}
