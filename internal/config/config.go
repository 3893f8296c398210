// Package config carga la configuración desde variables de entorno.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppName string `env:"APP_NAME" envDefault:"adoptme"`
	Port    int    `env:"PORT" envDefault:"8080"`

	// Store
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"memory"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"adoptme"`
	DBDSN         string `env:"DB_DSN"`

	// Redis es opcional: sin URL no hay rate limit en /api/mocks
	RedisURL           string  `env:"REDIS_URL"`
	MockRateLimitRPS   float64 `env:"MOCK_RATE_LIMIT_RPS" envDefault:"1"`
	MockRateLimitBurst int     `env:"MOCK_RATE_LIMIT_BURST" envDefault:"5"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	MockPassword string `env:"MOCK_PASSWORD" envDefault:"coder123"`
	BcryptCost   int    `env:"BCRYPT_COST" envDefault:"10"`
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate revisa combinaciones que env.Parse no puede expresar.
func (c *Config) Validate() error {
	var errs []error

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMemory:
	case DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" || strings.TrimSpace(c.MongoDatabase) == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo driver"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			errs = append(errs, errors.New("DB_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.MockRateLimitRPS < 0 || c.MockRateLimitBurst < 0 {
		errs = append(errs, errors.New("mock rate limit values must be non-negative"))
	}
	if c.MockPassword == "" {
		errs = append(errs, errors.New("MOCK_PASSWORD cannot be empty"))
	}

	return errors.Join(errs...)
}

// Load parsea el entorno y valida el resultado.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
