package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"orbit"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"orbit_dev_password"`
	DBName     string `env:"DB_NAME" envDefault:"orbit"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	// HashCost is the bcrypt cost factor; HashWorkers bounds concurrent
	// hashing (0 means one slot per CPU).
	HashCost    int `env:"HASH_COST" envDefault:"10"`
	HashWorkers int `env:"HASH_WORKERS" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
