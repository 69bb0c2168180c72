package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything main needs to wire the server.
type Config struct {
	Env  string
	Port string

	// "postgres" (default) or "memory".
	Store       string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret   string
	TokenTTL    time.Duration
	StrictRoles bool

	PaymentAPIURL    string
	PaymentKeyID     string
	PaymentKeySecret string
	PaymentCurrency  string
	PaymentTimeout   time.Duration

	LogLevel    string
	CORSOrigins []string
}

func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:   envString("APP_ENV", "production"),
		Port:  envString("PORT", "8080"),
		Store: strings.ToLower(envString("STORE", "postgres")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      envString("DB_HOST", "localhost"),
		DBPort:      envString("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    envDuration("TOKEN_TTL", time.Hour),
		StrictRoles: envBool("AUTH_STRICT_ROLES", false),

		PaymentAPIURL:    os.Getenv("PAYMENT_API_URL"),
		PaymentKeyID:     os.Getenv("PAYMENT_KEY_ID"),
		PaymentKeySecret: os.Getenv("PAYMENT_KEY_SECRET"),
		PaymentCurrency:  envString("PAYMENT_CURRENCY", "INR"),
		PaymentTimeout:   envDuration("PAYMENT_TIMEOUT", 10*time.Second),

		LogLevel:    envString("LOG_LEVEL", "info"),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}
	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return Config{}, errors.New("STORE must be postgres or memory")
	}
	return cfg, nil
}

func envString(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envList(name string, fallback []string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
