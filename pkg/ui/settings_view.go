package ui

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

func RenderHome(deckName, format string, includeImages, includeAudio bool) (string, *models.InlineKeyboardMarkup, error) {
	formatData, err := BuildFormatCallback()
	if err != nil {
		return "", nil, err
	}
	mediaData, err := BuildMediaCallback()
	if err != nil {
		return "", nil, err
	}
	closeData, err := BuildCloseCallback()
	if err != nil {
		return "", nil, err
	}

	text := fmt.Sprintf(
		"Settings\n- Deck name: %s\n- Export format: %s\n- Images: %s\n- Audio: %s\n\nUse /setdeck <name> to rename the deck.",
		deckName,
		formatLabel(format),
		formatToggle(includeImages),
		formatToggle(includeAudio),
	)

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Format", CallbackData: formatData},
				{Text: "Media", CallbackData: mediaData},
			},
			{
				{Text: "Close", CallbackData: closeData},
			},
		},
	}

	return text, keyboard, nil
}

func RenderFormat(current string) (string, *models.InlineKeyboardMarkup, error) {
	packageData, err := BuildFormatSetCallback(FormatCodePackage)
	if err != nil {
		return "", nil, err
	}
	zipData, err := BuildFormatSetCallback(FormatCodeZip)
	if err != nil {
		return "", nil, err
	}
	tableData, err := BuildFormatSetCallback(FormatCodeTable)
	if err != nil {
		return "", nil, err
	}
	backData, err := BuildHomeCallback()
	if err != nil {
		return "", nil, err
	}

	text := fmt.Sprintf(
		"Export format\nCurrent: %s\n\nAnki package imports directly into Anki. If packaging fails, the export falls back to a zip archive, then to a plain table.",
		formatLabel(current),
	)

	currentCode := FormatCode(current)
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: pickLabel("Anki package", currentCode == FormatCodePackage), CallbackData: packageData},
			},
			{
				{Text: pickLabel("Zip archive", currentCode == FormatCodeZip), CallbackData: zipData},
				{Text: pickLabel("Plain table", currentCode == FormatCodeTable), CallbackData: tableData},
			},
			{
				{Text: "Back", CallbackData: backData},
			},
		},
	}

	return text, keyboard, nil
}

func RenderMedia(includeImages, includeAudio bool) (string, *models.InlineKeyboardMarkup, error) {
	imagesData, err := BuildMediaToggleCallback(MediaImages)
	if err != nil {
		return "", nil, err
	}
	audioData, err := BuildMediaToggleCallback(MediaAudio)
	if err != nil {
		return "", nil, err
	}
	backData, err := BuildHomeCallback()
	if err != nil {
		return "", nil, err
	}

	text := fmt.Sprintf(
		"Media\nImages: %s\nAudio: %s",
		formatToggle(includeImages),
		formatToggle(includeAudio),
	)

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: toggleLabel("Images", includeImages), CallbackData: imagesData},
				{Text: toggleLabel("Audio", includeAudio), CallbackData: audioData},
			},
			{
				{Text: "Back", CallbackData: backData},
			},
		},
	}

	return text, keyboard, nil
}

func formatLabel(format string) string {
	switch format {
	case "zip":
		return "Zip archive"
	case "tsv":
		return "Plain table"
	default:
		return "Anki package"
	}
}

func formatToggle(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func toggleLabel(label string, enabled bool) string {
	if enabled {
		return fmt.Sprintf("%s ✅", label)
	}
	return fmt.Sprintf("%s ❌", label)
}

func pickLabel(label string, selected bool) string {
	if selected {
		return fmt.Sprintf("• %s", label)
	}
	return label
}
