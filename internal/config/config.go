package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	// WordGameSecret signs the session signature echoed on guess and
	// refresh. GameSecret signs reward session tokens.
	WordGameSecret string
	GameSecret     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/creaturegrove?sslmode=disable"),
		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:      getEnv("REDIS_PASSWORD", ""),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		WordGameSecret: os.Getenv("WORD_GAME_SECRET"),
		GameSecret:     os.Getenv("GAME_SECRET_KEY"),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.WordGameSecret == "" {
		return nil, fmt.Errorf("WORD_GAME_SECRET is required")
	}
	if cfg.GameSecret == "" {
		return nil, fmt.Errorf("GAME_SECRET_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
