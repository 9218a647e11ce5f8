package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Export   ExportConfig   `json:"export"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite". Sqlite uses Path; postgres uses the
	// remaining fields.
	Driver   string `json:"driver"`
	Path     string `json:"path"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

type ExportConfig struct {
	// DefaultDeckName is used when a user has not named their deck.
	DefaultDeckName string `json:"default_deck_name"`
	// MediaTimeoutSeconds bounds each remote media fetch during an export.
	MediaTimeoutSeconds int `json:"media_timeout_seconds"`
}

const (
	tokenEnvVar = "TELEGRAM_TOKEN"

	DefaultDeckName           = "Vocabulary"
	DefaultMediaTimeoutSecond = 15
)

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	applyDefaults(&AppConfig)
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		cfg.Telegram.Token = os.Getenv(tokenEnvVar)
	}
	if strings.TrimSpace(cfg.Database.Driver) == "" {
		cfg.Database.Driver = "postgres"
	}
	if strings.TrimSpace(cfg.Export.DefaultDeckName) == "" {
		cfg.Export.DefaultDeckName = DefaultDeckName
	}
	if cfg.Export.MediaTimeoutSeconds <= 0 {
		cfg.Export.MediaTimeoutSeconds = DefaultMediaTimeoutSecond
	}
}
