package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vocabforge/tg-anki-exporter/pkg/anki"
	"github.com/vocabforge/tg-anki-exporter/pkg/config"
	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

func HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleExport")
		return
	}
	if update.Message.Chat.Type != models.ChatTypePrivate {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "The /export command works only in private chat.",
		})
		return
	}

	userID := update.Message.From.ID
	settings, err := db.GetUserSettings(userID)
	if err != nil {
		logger.Error("failed to load user settings", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to export your flashcards. Please try again later.",
		})
		return
	}

	stored, err := db.FlashcardsForExport(userID)
	if err != nil {
		logger.Error("failed to fetch flashcards for export", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to export your flashcards. Please try again later.",
		})
		return
	}
	if len(stored) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "You have no flashcards to export.",
		})
		return
	}

	format, err := anki.ParseFormat(settings.ExportFormat)
	if err != nil {
		logger.Warn("stored export format is unknown, using package", "user_id", userID, "format", settings.ExportFormat)
		format = anki.FormatPackage
	}
	deckName := displayDeckName(settings)

	cards := make([]anki.Card, 0, len(stored))
	for i := range stored {
		cards = append(cards, anki.Card{
			Word:       stored[i].Word,
			Definition: stored[i].Definition,
			Examples:   stored[i].ExampleList(),
			Synonyms:   stored[i].SynonymList(),
			Difficulty: stored[i].Difficulty,
			Image:      stored[i].Image,
			Audio:      stored[i].Audio,
		})
	}

	exporter := anki.NewExporter(time.Duration(config.AppConfig.Export.MediaTimeoutSeconds) * time.Second)
	artifact, err := exporter.Export(ctx, anki.Request{
		Cards:         cards,
		DeckName:      deckName,
		Format:        format,
		IncludeImages: settings.IncludeImages,
		IncludeAudio:  settings.IncludeAudio,
	})
	if err != nil {
		logger.Error("failed to build export", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to export your flashcards. Please try again later.",
		})
		return
	}

	caption := fmt.Sprintf("Your deck %q (%d cards).", deckName, artifact.CardCount)
	if artifact.Format != format {
		caption += fmt.Sprintf(" Packaging as %s failed, so this is a %s export.", format, artifact.Format)
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: update.Message.Chat.ID,
		Document: &models.InputFileUpload{
			Filename: artifact.Filename,
			Data:     bytes.NewReader(artifact.Data),
		},
		Caption: caption,
	})
	if err != nil {
		logger.Error("failed to send export document", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to export your flashcards. Please try again later.",
		})
		return
	}

	record := db.ExportRecord{
		UserID:          userID,
		RunID:           artifact.RunID,
		RequestedFormat: string(format),
		DeliveredFormat: string(artifact.Format),
		CardCount:       artifact.CardCount,
		MediaCount:      artifact.MediaCount,
		SizeBytes:       int64(len(artifact.Data)),
	}
	if err := db.RecordExport(&record); err != nil {
		logger.Error("failed to record export", "user_id", userID, "run_id", artifact.RunID, "error", err)
	}
}
