// internal/config/config.go
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	CatalogPath      string
	TransactionsPath string
	APIKey           string
	JWTSecret        string
	JWTExpiresIn     time.Duration
	TelegramBotToken string
	WebhookBaseURL   string
	LogLevel         slog.Level
	GinMode          string
}

func MustLoad() Config {
	// .env необязателен, в проде переменные задаёт окружение
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "./data/cc_options.json"
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		apiKey = "change-me"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-super-secret-jwt-key-change-in-prod"
	}

	jwtExpiresIn := 24 * time.Hour
	if expiresInStr := os.Getenv("JWT_EXPIRES_IN"); expiresInStr != "" {
		if d, err := time.ParseDuration(expiresInStr); err == nil {
			jwtExpiresIn = d
		}
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = "release"
	}

	return Config{
		ServerPort:       ":" + port,
		CatalogPath:      catalogPath,
		TransactionsPath: os.Getenv("TRANSACTIONS_PATH"),
		APIKey:           apiKey,
		JWTSecret:        jwtSecret,
		JWTExpiresIn:     jwtExpiresIn,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookBaseURL:   strings.TrimRight(os.Getenv("WEBHOOK_BASE_URL"), "/"),
		LogLevel:         ParseLevel(os.Getenv("LOG_LEVEL")),
		GinMode:          ginMode,
	}
}

// ParseLevel maps debug|info|warn|error to a slog level; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger: общий текстовый логгер для всех бинарников.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
