package importexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/vocabforge/tg-anki-exporter/pkg/db"
	"gorm.io/gorm"
)

// FlashcardInput is one parsed upload row. Examples and synonyms arrive as
// ";"-separated cells.
type FlashcardInput struct {
	Word       string
	Definition string
	Examples   []string
	Synonyms   []string
	Difficulty string
	Image      string
	Audio      string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const (
	maxDelimiterSampleRecords = 20
	multiValueSeparator       = ";"
)

// ParseFlashcardCSV reads uploaded flashcard rows. Columns, in order: word,
// definition, examples, synonyms, difficulty, image, audio; only the word
// is required. Returns the parsed cards and the number of skipped rows.
func ParseFlashcardCSV(data []byte) ([]FlashcardInput, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	delimiter := detectCSVDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var cards []FlashcardInput
	skipped := 0
	checkedHeader := false

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if isEmptyCSVRecord(record) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(record) {
				continue
			}
		}
		word := strings.TrimSpace(field(record, 0))
		if word == "" {
			skipped++
			continue
		}
		cards = append(cards, FlashcardInput{
			Word:       word,
			Definition: strings.TrimSpace(field(record, 1)),
			Examples:   splitMultiValue(field(record, 2)),
			Synonyms:   splitMultiValue(field(record, 3)),
			Difficulty: strings.ToLower(strings.TrimSpace(field(record, 4))),
			Image:      strings.TrimSpace(field(record, 5)),
			Audio:      strings.TrimSpace(field(record, 6)),
		})
	}

	return cards, skipped, nil
}

func field(record []string, index int) string {
	if index >= len(record) {
		return ""
	}
	return record[index]
}

func splitMultiValue(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, multiValueSeparator)
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// detectCSVDelimiter scores comma and tab candidates against a sample of
// records. Semicolon is not a candidate: it separates values inside the
// examples and synonyms cells.
func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	counts := make(map[int]int)
	recordsSeen := 0

	for recordsSeen < maxRecords {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyCSVRecord(record) {
			continue
		}
		recordsSeen++

		if len(record) < 2 {
			continue
		}
		counts[len(record)]++
	}

	best := 0
	for _, score := range counts {
		if score > best {
			best = score
		}
	}
	return best, nil
}

func isEmptyCSVRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	first := strings.ToLower(strings.TrimSpace(record[0]))
	switch first {
	case "word", "term":
		return true
	default:
		return false
	}
}

// UpsertFlashcards stores parsed cards for a user in one transaction,
// updating rows that already exist for the same word.
func UpsertFlashcards(userID int64, cards []FlashcardInput) (int, int, error) {
	inserted := 0
	updated := 0

	if len(cards) == 0 {
		return inserted, updated, nil
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		for _, card := range cards {
			examples, err := db.StringList(card.Examples)
			if err != nil {
				return err
			}
			synonyms, err := db.StringList(card.Synonyms)
			if err != nil {
				return err
			}

			values := map[string]any{
				"definition": card.Definition,
				"examples":   examples,
				"synonyms":   synonyms,
				"difficulty": card.Difficulty,
				"image":      card.Image,
				"audio":      card.Audio,
				"updated_at": time.Now().UTC(),
			}
			result := tx.Model(&db.Flashcard{}).
				Where("user_id = ? AND word = ?", userID, card.Word).
				Updates(values)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				updated++
				continue
			}

			record := db.Flashcard{
				UserID:     userID,
				Word:       card.Word,
				Definition: card.Definition,
				Examples:   examples,
				Synonyms:   synonyms,
				Difficulty: card.Difficulty,
				Image:      card.Image,
				Audio:      card.Audio,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return inserted, updated, nil
}
