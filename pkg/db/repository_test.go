package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := gdb.AutoMigrate(&Flashcard{}, &UserSettings{}, &ExportRecord{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	DB = gdb

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
		DB = nil
	})
}

func TestGetUserSettingsCreatesDefaults(t *testing.T) {
	setupDB(t)

	settings, err := GetUserSettings(42)
	if err != nil {
		t.Fatalf("GetUserSettings failed: %v", err)
	}
	if settings.ExportFormat != "apkg" {
		t.Fatalf("expected default format apkg, got %q", settings.ExportFormat)
	}
	if !settings.IncludeImages || !settings.IncludeAudio {
		t.Fatalf("expected media toggles on by default, got %+v", settings)
	}

	settings.DeckName = "Dutch"
	settings.ExportFormat = "zip"
	if err := SaveUserSettings(&settings); err != nil {
		t.Fatalf("SaveUserSettings failed: %v", err)
	}

	reloaded, err := GetUserSettings(42)
	if err != nil {
		t.Fatalf("GetUserSettings after save failed: %v", err)
	}
	if reloaded.DeckName != "Dutch" || reloaded.ExportFormat != "zip" {
		t.Fatalf("settings not persisted: %+v", reloaded)
	}
}

func TestFlashcardsForExportOrdering(t *testing.T) {
	setupDB(t)

	words := []string{"zeal", "alacrity", "mirth"}
	for _, w := range words {
		if err := DB.Create(&Flashcard{UserID: 7, Word: w}).Error; err != nil {
			t.Fatalf("failed to seed flashcard %q: %v", w, err)
		}
	}
	if err := DB.Create(&Flashcard{UserID: 8, Word: "other"}).Error; err != nil {
		t.Fatalf("failed to seed other user's flashcard: %v", err)
	}

	cards, err := FlashcardsForExport(7)
	if err != nil {
		t.Fatalf("FlashcardsForExport failed: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[0].Word != "alacrity" || cards[1].Word != "mirth" || cards[2].Word != "zeal" {
		t.Fatalf("unexpected order: %q %q %q", cards[0].Word, cards[1].Word, cards[2].Word)
	}
}

func TestClearFlashcards(t *testing.T) {
	setupDB(t)

	for _, w := range []string{"one", "two"} {
		if err := DB.Create(&Flashcard{UserID: 9, Word: w}).Error; err != nil {
			t.Fatalf("failed to seed flashcard: %v", err)
		}
	}

	deleted, err := ClearFlashcards(9)
	if err != nil {
		t.Fatalf("ClearFlashcards failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}

	var count int64
	if err := DB.Model(&Flashcard{}).Where("user_id = ?", 9).Count(&count).Error; err != nil {
		t.Fatalf("failed to count flashcards: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no flashcards left, got %d", count)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	raw, err := StringList([]string{"a", "b"})
	if err != nil {
		t.Fatalf("StringList failed: %v", err)
	}
	card := Flashcard{Examples: raw}
	got := card.ExampleList()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected example list: %v", got)
	}

	empty, err := StringList(nil)
	if err != nil {
		t.Fatalf("StringList(nil) failed: %v", err)
	}
	card = Flashcard{Synonyms: empty}
	if got := card.SynonymList(); len(got) != 0 {
		t.Fatalf("expected empty synonym list, got %v", got)
	}
}
