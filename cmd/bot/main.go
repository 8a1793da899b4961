// cmd/bot/main.go
package main

import (
	"card-optimizer/internal/bot"
	"card-optimizer/internal/config"
	"card-optimizer/internal/metrics"
	"card-optimizer/internal/workspace"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(config.NewLogger(cfg.LogLevel))

	if cfg.TelegramBotToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := workspace.Open(ctx, cfg.CatalogPath, cfg.TransactionsPath)
	if err != nil {
		slog.Error("Failed to load workspace", "error", err)
		os.Exit(1)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("Failed to start bot", "error", err)
		os.Exit(1)
	}
	// Вебхук мешает long polling
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("deleteWebhook failed", "error", err)
	}

	slog.Info("Bot started", "bot", api.Self.UserName)
	bot.NewCommands(store, metrics.NewRecorder()).Poll(ctx, api)
	slog.Info("Bot stopped")
}
