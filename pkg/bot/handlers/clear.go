package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

func HandleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleClear")
		return
	}

	removed, err := db.ClearFlashcards(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to clear flashcards", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to clear your flashcards. Please try again later.",
		})
		return
	}

	if removed == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "You have no flashcards to clear.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("Removed %d flashcards.", removed),
	})
}
