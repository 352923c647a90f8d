package config

import (
	"fmt"
	"os"
)

// Config carries every runtime setting the service reads from the
// environment. Defaults match the local docker-compose setup.
type Config struct {
	AppPort string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	MediaBaseURL string
}

func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", ":8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "user"),
		DBPass: getEnv("DB_PASS", "password"),
		DBName: getEnv("DB_NAME", "faithlinkdb"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		JWTSecret:    getEnv("JWT_SECRET", "dev-only-secret"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
