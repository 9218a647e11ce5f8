package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/internal/testutil"
)

func TestHandleStartInitializesSettings(t *testing.T) {
	testutil.SetupTestDB(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleStart(context.Background(), b, newTestUpdate("/start", 10))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Welcome") {
		t.Fatalf("expected welcome message, got %q", text)
	}

	var count int64
	if err := db.DB.Model(&db.UserSettings{}).Where("user_id = ?", int64(10)).Count(&count).Error; err != nil {
		t.Fatalf("failed to count settings rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected settings row to be created, got %d", count)
	}

	settings, err := db.GetUserSettings(10)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if settings.ExportFormat != "apkg" || !settings.IncludeImages || !settings.IncludeAudio {
		t.Fatalf("unexpected default settings: %+v", settings)
	}
}
