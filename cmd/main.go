package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"omr-bot/config"
	telegram "omr-bot/internal/api"
	app "omr-bot/internal/application"
	"omr-bot/internal/container"
	"omr-bot/internal/domain/entity"
	"omr-bot/internal/infrastructure/calibration"
	"omr-bot/internal/infrastructure/keyfile"
	"omr-bot/internal/infrastructure/storage"
	"omr-bot/internal/infrastructure/vision"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	geometry := entity.DefaultGeometry()
	if cfg.CalibrationFile != "" {
		if geometry, err = calibration.Load(cfg.CalibrationFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.CalibrationFile).Msg("failed to load calibration")
		}
		log.Info().Str("file", cfg.CalibrationFile).Msg("calibration loaded")
	}

	scanner := vision.NewSheetScanner(geometry)
	scanner.JPEGQuality = cfg.JPEGQuality

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, scanner)

	if cfg.AnswerKeyFile != "" {
		defaults, err := loadDefaults(cfg.AnswerKeyFile, cfg.ActiveItems)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.AnswerKeyFile).Msg("failed to load answer key")
		}
		appContainer.GradingService.UseDefaults(defaults)
		log.Info().Str("exam", defaults.ExamName).Int("questions", len(defaults.Key)).Msg("default answer key loaded")
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("bot is running")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot error")
	}
	log.Info().Msg("bot stopped")
}

func loadDefaults(path string, items int) (app.Defaults, error) {
	f, err := os.Open(path)
	if err != nil {
		return app.Defaults{}, err
	}
	defer f.Close()

	name, key, err := keyfile.ParseAnswerKey(f)
	if err != nil {
		return app.Defaults{}, err
	}
	return app.Defaults{ExamName: name, Key: key, ActiveItems: items}, nil
}
