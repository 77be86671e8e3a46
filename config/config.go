package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	TelegramToken   string
	CalibrationFile string // если пусто, используется калибровка по умолчанию
	AnswerKeyFile   string // ключ для пользователей без своего ключа
	ActiveItems     int
	LogLevel        zerolog.Level
	JPEGQuality     int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		CalibrationFile: os.Getenv("OMR_CALIBRATION_FILE"),
		AnswerKeyFile:   os.Getenv("OMR_ANSWER_KEY_FILE"),
	}

	var err error
	if cfg.ActiveItems, err = getEnvInt("OMR_ACTIVE_ITEMS", 50); err != nil {
		return nil, err
	}
	if cfg.ActiveItems < 1 || cfg.ActiveItems > 50 {
		return nil, fmt.Errorf("OMR_ACTIVE_ITEMS must be in 1..50, got %d", cfg.ActiveItems)
	}

	if cfg.JPEGQuality, err = getEnvInt("OMR_JPEG_QUALITY", 90); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("OMR_JPEG_QUALITY must be in 1..100, got %d", cfg.JPEGQuality)
	}

	if cfg.LogLevel, err = zerolog.ParseLevel(getEnv("OMR_LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("OMR_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
