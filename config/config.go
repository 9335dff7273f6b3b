package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string
	DBUrl         string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	AIDelay       time.Duration
	LogLevel      string
	ClientOrigin  string
}

func LoadConfig() Config {
	err := godotenv.Load()

	if err != nil {
		log.Debug().Msg("No .env file found. Using environment variables.")
	}

	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		DBUrl:         os.Getenv("DB_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AIDelay:       time.Duration(getEnvInt("AI_DELAY_MS", 1000)) * time.Millisecond,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "*"),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid integer in environment, using default")
		return def
	}
	return n
}
