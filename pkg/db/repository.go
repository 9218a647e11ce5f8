// pkg/db/repository.go
package db

import (
	"fmt"
	"strconv"

	"github.com/vocabforge/tg-anki-exporter/pkg/config"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Export DB variable
var DB *gorm.DB

func InitDB(cfg config.DatabaseConfig) error {
	gormLogger, gormErr := newGormLogger(config.AppConfig.Logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", config.AppConfig.Logging.GormLevel, "error", gormErr)
	}

	dialector, err := openDialector(cfg)
	if err != nil {
		logger.Error("failed to select database driver", "driver", cfg.Driver, "error", err)
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	if err := DB.AutoMigrate(&Flashcard{}, &UserSettings{}, &ExportRecord{}); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return err
	}
	return nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "tg-anki-exporter.db"
		}
		return sqlite.Open(path), nil
	case "postgres", "":
		dsn := "host=" + cfg.Host +
			" user=" + cfg.User +
			" password=" + cfg.Password +
			" dbname=" + cfg.DBName +
			" port=" + strconv.Itoa(cfg.Port) +
			" sslmode=" + cfg.SSLMode
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// GetUserSettings returns the stored settings for a user, creating a row
// with defaults on first access.
func GetUserSettings(userID int64) (UserSettings, error) {
	settings := UserSettings{
		UserID:        userID,
		ExportFormat:  "apkg",
		IncludeImages: true,
		IncludeAudio:  true,
	}
	err := DB.Where("user_id = ?", userID).FirstOrCreate(&settings).Error
	return settings, err
}

func SaveUserSettings(settings *UserSettings) error {
	return DB.Save(settings).Error
}

// FlashcardsForExport loads a user's cards in a stable order so repeated
// exports produce identically ordered decks.
func FlashcardsForExport(userID int64) ([]Flashcard, error) {
	var cards []Flashcard
	err := DB.Where("user_id = ?", userID).Order("word ASC, id ASC").Find(&cards).Error
	return cards, err
}

func ClearFlashcards(userID int64) (int64, error) {
	res := DB.Where("user_id = ?", userID).Delete(&Flashcard{})
	return res.RowsAffected, res.Error
}

func RecordExport(record *ExportRecord) error {
	return DB.Create(record).Error
}
