package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     int
	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret string
	SecureCookies bool
	// SessionKey шифрует сессии в postgres; nil, если DATABASE_URL не задан.
	SessionKey  *[32]byte
	DatabaseURL string
	SessionIdle time.Duration

	AllowedOrigins []string

	PaymentProcessingDelay time.Duration
	PaymentConfirmDelay    time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BackendURL:        strings.TrimSpace(getenv("BACKEND_URL")),
		SessionSecret:     getenv("SESSION_SECRET"),
		DatabaseURL:       getenv("DATABASE_URL"),
		R2AccountID:       getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL environment variable is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	durations := []struct {
		name string
		dst  *time.Duration
		def  time.Duration
	}{
		{"BACKEND_TIMEOUT", &cfg.BackendTimeout, 15 * time.Second},
		{"SESSION_IDLE_TIMEOUT", &cfg.SessionIdle, 24 * time.Hour},
		{"PAYMENT_PROCESSING_DELAY", &cfg.PaymentProcessingDelay, 1800 * time.Millisecond},
		{"PAYMENT_CONFIRM_DELAY", &cfg.PaymentConfirmDelay, 1500 * time.Millisecond},
	}
	for _, d := range durations {
		*d.dst, err = durationEnv(getenv, d.name, d.def)
		if err != nil {
			return nil, err
		}
	}

	cfg.AllowedOrigins = splitList(getenv("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	cfg.SecureCookies = getenv("SECURE_COOKIES") == "true"

	if cfg.DatabaseURL != "" {
		key, err := sessionKey(getenv("SESSION_ENCRYPTION_KEY"))
		if err != nil {
			return nil, err
		}
		cfg.SessionKey = key
	}

	return cfg, nil
}

func durationEnv(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, raw)
	}
	return d, nil
}

func sessionKey(raw string) (*[32]byte, error) {
	if raw == "" {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY is required when DATABASE_URL is set")
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must be 32 bytes, got %d", len(decoded))
	}
	var key [32]byte
	copy(key[:], decoded)
	return &key, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
