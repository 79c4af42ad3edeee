package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinBcryptCost is the lowest work factor the server will hash with.
const MinBcryptCost = 12

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LogLevel    string

	JWTSecret  string
	SessionTTL time.Duration

	BcryptCost       int
	LoginMaxAttempts int
	TOTPIssuer       string

	CORSOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret, err := getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	databaseURL, err := getRequiredEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "168h"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}

	bcryptCost := getEnvInt("BCRYPT_COST", MinBcryptCost)
	if bcryptCost < MinBcryptCost {
		bcryptCost = MinBcryptCost
	}

	maxAttempts := getEnvInt("LOGIN_MAX_ATTEMPTS", 5)
	if maxAttempts < 1 {
		maxAttempts = 5
	}

	env := getEnv("ENV", "development")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         env,
		DatabaseURL: databaseURL,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret:  jwtSecret,
		SessionTTL: sessionTTL,

		BcryptCost:       bcryptCost,
		LoginMaxAttempts: maxAttempts,
		TOTPIssuer:       getEnv("TOTP_ISSUER", "Lockbox"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getRequiredEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("required environment variable not set: %s", key)
	}
	return value, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
