// pkg/db/models.go
package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Flashcard is one stored vocabulary entry owned by a single user. Examples
// and synonyms are JSON string arrays; image and audio hold either a remote
// URL or a data URI.
type Flashcard struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     int64  `gorm:"index;uniqueIndex:idx_user_word"`
	Word       string `gorm:"not null;uniqueIndex:idx_user_word"`
	Definition string
	Examples   datatypes.JSON
	Synonyms   datatypes.JSON
	Difficulty string
	Image      string
	Audio      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type UserSettings struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        int64  `gorm:"index"`
	DeckName      string `gorm:"not null;default:''"`
	ExportFormat  string `gorm:"not null;default:'apkg'"`
	IncludeImages bool   `gorm:"not null;default:true"`
	IncludeAudio  bool   `gorm:"not null;default:true"`
}

// ExportRecord is one row of export history: what was asked for, what was
// actually delivered after the degradation chain, and how big it was.
type ExportRecord struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          int64  `gorm:"index"`
	RunID           string `gorm:"not null"`
	RequestedFormat string `gorm:"not null"`
	DeliveredFormat string `gorm:"not null"`
	CardCount       int    `gorm:"not null;default:0"`
	MediaCount      int    `gorm:"not null;default:0"`
	SizeBytes       int64  `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

func StringList(values []string) (datatypes.JSON, error) {
	if len(values) == 0 {
		return datatypes.JSON([]byte("[]")), nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (f *Flashcard) ExampleList() []string {
	return decodeStringList(f.Examples)
}

func (f *Flashcard) SynonymList() []string {
	return decodeStringList(f.Synonyms)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
