package importexport

import (
	"testing"

	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"github.com/vocabforge/tg-anki-exporter/pkg/internal/testutil"
)

func TestParseFlashcardCSVComma(t *testing.T) {
	data := []byte("word,definition,examples,synonyms,difficulty,image,audio\n" +
		"alacrity,speed and eagerness,She accepted with alacrity;He moved with alacrity,eagerness;readiness,medium,https://img.example/a.png,\n" +
		"mirth,amusement,,,easy,,\n")

	cards, skipped, err := ParseFlashcardCSV(data)
	if err != nil {
		t.Fatalf("ParseFlashcardCSV failed: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	first := cards[0]
	if first.Word != "alacrity" || first.Definition != "speed and eagerness" {
		t.Fatalf("unexpected first card: %+v", first)
	}
	if len(first.Examples) != 2 || first.Examples[1] != "He moved with alacrity" {
		t.Fatalf("examples not split on semicolons: %v", first.Examples)
	}
	if len(first.Synonyms) != 2 || first.Synonyms[0] != "eagerness" {
		t.Fatalf("synonyms not split on semicolons: %v", first.Synonyms)
	}
	if first.Image != "https://img.example/a.png" {
		t.Fatalf("unexpected image: %q", first.Image)
	}

	second := cards[1]
	if second.Examples != nil || second.Synonyms != nil {
		t.Fatalf("empty cells must yield nil lists: %+v", second)
	}
}

func TestParseFlashcardCSVTabDelimited(t *testing.T) {
	data := []byte("alacrity\tspeed and eagerness\t\t\thard\t\t\n" +
		"mirth\tamusement\t\t\t\t\t\n")

	cards, _, err := ParseFlashcardCSV(data)
	if err != nil {
		t.Fatalf("ParseFlashcardCSV failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Word != "alacrity" || cards[0].Difficulty != "hard" {
		t.Fatalf("tab-delimited row parsed incorrectly: %+v", cards[0])
	}
}

func TestParseFlashcardCSVSkipsBlankAndWordlessRows(t *testing.T) {
	data := []byte("word,definition\n" +
		"\n" +
		",orphan definition\n" +
		"zeal,great energy\n")

	cards, skipped, err := ParseFlashcardCSV(data)
	if err != nil {
		t.Fatalf("ParseFlashcardCSV failed: %v", err)
	}
	if len(cards) != 1 || cards[0].Word != "zeal" {
		t.Fatalf("unexpected cards: %+v", cards)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
}

func TestParseFlashcardCSVStripsBOMAndNormalizesDifficulty(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("zeal,great energy,,,HARD,,\n")...)

	cards, _, err := ParseFlashcardCSV(data)
	if err != nil {
		t.Fatalf("ParseFlashcardCSV failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Word != "zeal" {
		t.Fatalf("BOM not stripped from first cell: %q", cards[0].Word)
	}
	if cards[0].Difficulty != "hard" {
		t.Fatalf("difficulty not lowercased: %q", cards[0].Difficulty)
	}
}

func TestUpsertFlashcards(t *testing.T) {
	testutil.SetupTestDB(t)

	cards := []FlashcardInput{
		{Word: "alacrity", Definition: "speed", Synonyms: []string{"eagerness"}},
		{Word: "mirth", Definition: "amusement"},
	}
	inserted, updated, err := UpsertFlashcards(1, cards)
	if err != nil {
		t.Fatalf("UpsertFlashcards failed: %v", err)
	}
	if inserted != 2 || updated != 0 {
		t.Fatalf("expected 2 inserted, got inserted=%d updated=%d", inserted, updated)
	}

	inserted, updated, err = UpsertFlashcards(1, []FlashcardInput{
		{Word: "alacrity", Definition: "speed and eagerness"},
		{Word: "zeal", Definition: "great energy"},
	})
	if err != nil {
		t.Fatalf("UpsertFlashcards failed on second pass: %v", err)
	}
	if inserted != 1 || updated != 1 {
		t.Fatalf("expected 1 inserted and 1 updated, got inserted=%d updated=%d", inserted, updated)
	}

	var stored db.Flashcard
	if err := db.DB.Where("user_id = ? AND word = ?", int64(1), "alacrity").First(&stored).Error; err != nil {
		t.Fatalf("failed to load upserted card: %v", err)
	}
	if stored.Definition != "speed and eagerness" {
		t.Fatalf("definition not updated: %q", stored.Definition)
	}

	var count int64
	if err := db.DB.Model(&db.Flashcard{}).Where("user_id = ?", int64(1)).Count(&count).Error; err != nil {
		t.Fatalf("failed to count cards: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 stored cards, got %d", count)
	}
}

func TestUpsertFlashcardsScopedToUser(t *testing.T) {
	testutil.SetupTestDB(t)

	if _, _, err := UpsertFlashcards(1, []FlashcardInput{{Word: "zeal", Definition: "a"}}); err != nil {
		t.Fatalf("UpsertFlashcards failed: %v", err)
	}
	inserted, updated, err := UpsertFlashcards(2, []FlashcardInput{{Word: "zeal", Definition: "b"}})
	if err != nil {
		t.Fatalf("UpsertFlashcards failed: %v", err)
	}
	if inserted != 1 || updated != 0 {
		t.Fatalf("same word for another user must insert, got inserted=%d updated=%d", inserted, updated)
	}
}
