// Package config loads the application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DBConfig struct {
	Url string `envconfig:"URL"`
}

type JwtConfig struct {
	Secret string        `envconfig:"SECRET_KEY" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type LogConfig struct {
	Level  int    `envconfig:"LEVEL" default:"0"`
	Format string `envconfig:"FORMAT" default:"text"`
}

type AppConfig struct {
	Env  string    `envconfig:"APP_ENV" default:"development"`
	Host string    `envconfig:"APP_HOST" default:"localhost"`
	Port int       `envconfig:"APP_PORT" default:"3000"`
	DB   DBConfig  `envconfig:"DATABASE"`
	Jwt  JwtConfig `envconfig:"JWT"`
	Log  LogConfig `envconfig:"LOG"`
}

// Load reads the .env file when present and then resolves the config from the
// environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Default().Warn("No .env file found, using system environment variables")
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
