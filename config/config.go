package config

import (
	"os"
	"time"
)

type Config struct {
	ServerAddr    string
	DBDriver      string
	DBDSN         string
	JWTSecret     string
	TokenTTL      time.Duration
	DefaultAvatar string
}

var Cfg *Config

func Load() {
	Cfg = &Config{
		ServerAddr:    ":" + getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBDSN:         getEnv("DB_DSN", "root:root@tcp(localhost:3306)/mingle?charset=utf8mb4"),
		JWTSecret:     getEnv("JWT_SECRET", "mingle-secret-key-change-in-production"),
		TokenTTL:      getDuration("TOKEN_TTL", 6*time.Hour),
		DefaultAvatar: getEnv("DEFAULT_AVATAR", "/static/default-avatar.png"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
