package bot

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/encoding/charmap"
)

// Sender: часть tgbotapi.BotAPI, нужная для ответа.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reply handles one update and sends the answer back to its chat. Updates
// without a text message are ignored.
func (b *Commands) Reply(ctx context.Context, sender Sender, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	slog.Info("📥 Message received", "chat_id", chatID, "text", update.Message.Text)

	msgText, err := b.Handle(ctx, update.Message.Text)
	if err != nil {
		slog.Warn("Command failed", "chat_id", chatID, "error", err)
		msgText = "❌ Error: " + escape(err.Error())
	}

	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := sender.Send(msg); err != nil {
		slog.Error("Send failed", "chat_id", chatID, "error", err)
	}
}

// Poll reads updates by long polling until ctx is done.
func (b *Commands) Poll(ctx context.Context, api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.Reply(ctx, api, update)
		}
	}
}

// Normalize repairs non-UTF-8 input and collapses whitespace runs into single
// spaces.
func Normalize(s string) string {
	s = fixEncoding(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	// Старые клиенты иногда шлют cp1252
	fixed, err := charmap.Windows1252.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
