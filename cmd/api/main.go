// cmd/api/main.go
package main

import (
	"card-optimizer/internal/auth"
	"card-optimizer/internal/bot"
	"card-optimizer/internal/config"
	"card-optimizer/internal/handler"
	"card-optimizer/internal/metrics"
	"card-optimizer/internal/middleware"
	"card-optimizer/internal/workspace"
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(config.NewLogger(cfg.LogLevel))

	store, err := workspace.Open(context.Background(), cfg.CatalogPath, cfg.TransactionsPath)
	if err != nil {
		slog.Error("Не удалось загрузить данные", "error", err)
		os.Exit(1)
	}

	rec := metrics.NewRecorder()
	tokenService := auth.NewTokenService(cfg)

	// Gin
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	handler.Register(router,
		handler.NewOptimizerHandler(store, tokenService, rec),
		middleware.NewAuthMiddleware(tokenService),
		rec,
	)

	// Telegram webhook
	if cfg.TelegramBotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			slog.Error("Не удалось инициализировать Telegram бота", "error", err)
			os.Exit(1)
		}

		webhookURL := cfg.WebhookBaseURL + "/telegram"
		if _, err := api.MakeRequest("setWebhook", tgbotapi.Params{"url": webhookURL}); err != nil {
			slog.Error("Не удалось установить webhook", "error", err)
			os.Exit(1)
		}
		slog.Info("Telegram webhook установлен", "url", webhookURL, "bot", api.Self.UserName)

		commands := bot.NewCommands(store, rec)
		router.POST("/telegram", func(c *gin.Context) {
			var update tgbotapi.Update
			if err := c.ShouldBindJSON(&update); err != nil {
				slog.Error("Ошибка парсинга обновления", "error", err)
				c.Status(http.StatusBadRequest)
				return
			}
			commands.Reply(c.Request.Context(), api, update)
			c.Status(http.StatusOK)
		})
	}

	slog.Info("🚀 Сервер запущен", "addr", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Сервер завершил работу с ошибкой", "error", err)
		os.Exit(1)
	}
}
