package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Values come from environment
// variables, optionally loaded from a .env file first.
type Config struct {
	MongoURI    string `env:"MONGO_URI" env-default:"mongodb://127.0.0.1:27017"`
	MongoDBName string `env:"MONGO_DB_NAME" env-default:"project-management-tool"`
	JWTSecret   string `env:"JWT_SECRET"`
	ServerPort  string `env:"SERVER_PORT" env-default:"5000"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
}

// Load reads the optional .env file and parses the environment into a
// Config. JWT_SECRET has no default; the server refuses to start without it.
func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return &cfg, nil
}
