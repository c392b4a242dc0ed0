package config

import (
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiAPIVersion string
	GeminiEngine     string // rest | sdk

	UseProxy  bool
	ProxyHost string
	ProxyPort int

	HTTPTimeout time.Duration

	DatabaseURL string
	CacheTTL    time.Duration

	LogLevel  string
	LogFormat string

	TelegramBotToken string
	WebhookURL       string
}

// Load читает окружение (и .env, если есть). Значения по умолчанию совпадают
// с прежними константами сервиса.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8000"),

		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIVersion: getEnv("GEMINI_API_VERSION", "v1"),
		GeminiEngine:     strings.ToLower(getEnv("GEMINI_ENGINE", "rest")),

		UseProxy:  getEnvBool("GEMINI_USE_PROXY", false),
		ProxyHost: getEnv("GEMINI_PROXY_HOST", "192.168.43.1"),
		ProxyPort: getEnvInt("GEMINI_PROXY_PORT", 8080),

		HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,

		DatabaseURL: resolveDSN(),
		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_MINUTES", 0)) * time.Minute,

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		WebhookURL:       strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	switch cfg.GeminiEngine {
	case "rest", "sdk":
	default:
		return nil, errors.New("GEMINI_ENGINE must be 'rest' or 'sdk'")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	return cfg, nil
}

// resolveDSN: DATABASE_URL, иначе POSTGRES_*/PG* (только если задан PGHOST).
// Пустая строка: хранилище выключено.
func resolveDSN() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	host := strings.TrimSpace(os.Getenv("PGHOST"))
	if host == "" {
		return ""
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "herbula"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     net.JoinHostPort(host, getEnv("PGPORT", "5432")),
		Path:     "/" + getEnv("POSTGRES_DB", "herbula"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
