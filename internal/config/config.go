package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret []byte
	TokenTTL  time.Duration

	KafkaBrokers []string

	LogLevel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	cfg := &Config{
		ServiceName: envDefault("SERVICE_NAME", "catalog"),
		ServerPort:  envIntDefault("SERVER_PORT", 8080),

		DBHost:     envDefault("DB_HOST", "localhost"),
		DBPort:     envDefault("DB_PORT", "5432"),
		DBUser:     envDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envDefault("DB_NAME", "catalog"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  envDurationDefault("TOKEN_TTL", 24*time.Hour),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),

		LogLevel: envDefault("LOG_LEVEL", "info"),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
