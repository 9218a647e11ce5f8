package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStart")
		return
	}

	settings, err := db.GetUserSettings(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to initialize user settings", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to initialize your account. Please try again later.",
		})
		return
	}

	deckName := displayDeckName(settings)
	text := fmt.Sprintf(
		"Welcome! Attach a CSV file to upload flashcards, then use /export to "+
			"download them as an Anki deck.\n\nYour deck is named %q. Use /setdeck "+
			"to rename it and /settings to pick the export format.",
		deckName,
	)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send welcome message", "user_id", update.Message.From.ID, "error", err)
	}
}
