package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI     string
	MongoDB      string
	HTTPAddr     string
	JWTSecret    string
	StoreTimeout time.Duration
}

// Load reads configuration from the environment, with a best-effort .env
// file for local development.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		MongoURI:  os.Getenv("MONGO_URI"),
		MongoDB:   os.Getenv("MONGO_DB"),
		HTTPAddr:  os.Getenv("HTTP_ADDR"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.MongoDB == "" {
		return Config{}, fmt.Errorf("MONGO_DB is required")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = "0.0.0.0:8080"
	}

	if raw := os.Getenv("STORE_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("STORE_TIMEOUT must be a positive number of seconds")
		}
		cfg.StoreTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}
