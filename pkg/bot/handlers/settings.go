package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vocabforge/tg-anki-exporter/pkg/config"
	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
	"github.com/vocabforge/tg-anki-exporter/pkg/ui"
)

var ErrInvalidAction = errors.New("invalid settings action")

func HandleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleSettings")
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

	text, keyboard, err := ui.RenderHome(
		displayDeckName(settings),
		settings.ExportFormat,
		settings.IncludeImages,
		settings.IncludeAudio,
	)
	if err != nil {
		logger.Error("failed to render settings home", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to render settings. Please try again later.",
		})
		return
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send settings message", "user_id", update.Message.From.ID, "error", err)
	}
}

func HandleSettingsCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleSettingsCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answered := false
	answerCallback := func(text string) {
		if answered || callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "error", err)
		}
		answered = true
	}

	action, err := ui.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse settings callback", "data", update.CallbackQuery.Data, "error", err)
		answerCallback("Unknown command")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil {
		logger.Error("callback query message is inaccessible", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}
	msg := message.Message
	if msg.Chat.ID == 0 {
		logger.Error("callback query message chat ID is missing", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}

	settings, err := db.GetUserSettings(update.CallbackQuery.From.ID)
	if err != nil {
		logger.Error("failed to load user settings", "user_id", update.CallbackQuery.From.ID, "error", err)
		answerCallback("Failed to load settings")
		return
	}

	newSettings, nextScreen, changed, err := ApplyAction(settings, action)
	if err != nil {
		logger.Error("failed to apply settings action", "user_id", update.CallbackQuery.From.ID, "error", err)
		answerCallback("Unknown command")
		return
	}

	if changed {
		if err := db.SaveUserSettings(&newSettings); err != nil {
			logger.Error("failed to save user settings", "user_id", update.CallbackQuery.From.ID, "error", err)
			answerCallback("Failed to save settings")
			return
		}
	}

	if !answered {
		answerCallback("")
	}

	if !changed && action.Op == ui.OpSet {
		return
	}

	var text string
	var keyboard *models.InlineKeyboardMarkup
	switch nextScreen {
	case ui.ScreenHome:
		text, keyboard, err = ui.RenderHome(
			displayDeckName(newSettings),
			newSettings.ExportFormat,
			newSettings.IncludeImages,
			newSettings.IncludeAudio,
		)
	case ui.ScreenFormat:
		text, keyboard, err = ui.RenderFormat(newSettings.ExportFormat)
	case ui.ScreenMedia:
		text, keyboard, err = ui.RenderMedia(newSettings.IncludeImages, newSettings.IncludeAudio)
	case ui.ScreenClose:
		text = "Settings saved ✅"
		keyboard = &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{},
		}
	default:
		logger.Error("unknown settings screen", "screen", nextScreen)
		return
	}
	if err != nil {
		logger.Error("failed to render settings screen", "user_id", update.CallbackQuery.From.ID, "error", err)
		return
	}

	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to edit settings message", "user_id", update.CallbackQuery.From.ID, "error", err)
	}
}

func ApplyAction(settings db.UserSettings, action ui.Action) (db.UserSettings, ui.Screen, bool, error) {
	switch action.Screen {
	case ui.ScreenHome:
		if action.Op != ui.OpNone {
			return settings, ui.ScreenHome, false, ErrInvalidAction
		}
		return settings, ui.ScreenHome, false, nil
	case ui.ScreenClose:
		if action.Op != ui.OpNone {
			return settings, ui.ScreenClose, false, ErrInvalidAction
		}
		return settings, ui.ScreenClose, false, nil
	case ui.ScreenFormat:
		switch action.Op {
		case ui.OpNone:
			return settings, ui.ScreenFormat, false, nil
		case ui.OpSet:
			format, ok := ui.FormatFromCode(action.Value)
			if !ok {
				return settings, ui.ScreenFormat, false, ErrInvalidAction
			}
			if format == settings.ExportFormat {
				return settings, ui.ScreenFormat, false, nil
			}
			newSettings := settings
			newSettings.ExportFormat = format
			return newSettings, ui.ScreenFormat, true, nil
		default:
			return settings, ui.ScreenFormat, false, ErrInvalidAction
		}
	case ui.ScreenMedia:
		switch action.Op {
		case ui.OpNone:
			return settings, ui.ScreenMedia, false, nil
		case ui.OpToggle:
			newSettings := settings
			switch action.Value {
			case ui.MediaImages:
				newSettings.IncludeImages = !settings.IncludeImages
			case ui.MediaAudio:
				newSettings.IncludeAudio = !settings.IncludeAudio
			default:
				return settings, ui.ScreenMedia, false, ErrInvalidAction
			}
			return newSettings, ui.ScreenMedia, true, nil
		default:
			return settings, ui.ScreenMedia, false, ErrInvalidAction
		}
	default:
		return settings, ui.ScreenHome, false, ErrInvalidAction
	}
}

func displayDeckName(settings db.UserSettings) string {
	if settings.DeckName != "" {
		return settings.DeckName
	}
	return defaultDeckName()
}

func defaultDeckName() string {
	if name := config.AppConfig.Export.DefaultDeckName; name != "" {
		return name
	}
	return config.DefaultDeckName
}
