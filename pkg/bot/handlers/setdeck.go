package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

const maxDeckNameLen = 60

func HandleSetDeck(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleSetDeck")
		return
	}

	settings, err := db.GetUserSettings(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to load user settings", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to load your settings. Please try again later.",
		})
		return
	}

	name := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/setdeck"))
	if name == "" {
		current := displayDeckName(settings)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Your deck is named %q. Send /setdeck <name> to rename it.", current),
		})
		return
	}
	if utf8.RuneCountInString(name) > maxDeckNameLen {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Deck names are limited to %d characters.", maxDeckNameLen),
		})
		return
	}

	settings.DeckName = name
	if err := db.SaveUserSettings(&settings); err != nil {
		logger.Error("failed to save deck name", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to save the deck name. Please try again later.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("Deck renamed to %q.", name),
	})
}
