package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/internal/testutil"
)

func TestHandleSetDeckRenames(t *testing.T) {
	testutil.SetupTestDB(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleSetDeck(context.Background(), b, newTestUpdate("/setdeck Dutch B1", 10))

	text := client.lastMessageText(t)
	if !strings.Contains(text, `"Dutch B1"`) {
		t.Fatalf("unexpected confirmation: %q", text)
	}

	settings, err := db.GetUserSettings(10)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if settings.DeckName != "Dutch B1" {
		t.Fatalf("deck name not saved: %q", settings.DeckName)
	}
}

func TestHandleSetDeckWithoutNameShowsCurrent(t *testing.T) {
	testutil.SetupTestDB(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleSetDeck(context.Background(), b, newTestUpdate("/setdeck", 10))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Your deck is named") {
		t.Fatalf("expected current deck message, got %q", text)
	}
}

func TestHandleSetDeckRejectsLongNames(t *testing.T) {
	testutil.SetupTestDB(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	long := strings.Repeat("x", maxDeckNameLen+1)
	HandleSetDeck(context.Background(), b, newTestUpdate("/setdeck "+long, 10))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "limited") {
		t.Fatalf("expected length rejection, got %q", text)
	}

	settings, err := db.GetUserSettings(10)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if settings.DeckName != "" {
		t.Fatalf("deck name must not be saved: %q", settings.DeckName)
	}
}
