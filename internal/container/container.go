package container

import (
	app "omr-bot/internal/application"
	"omr-bot/internal/domain/port"
	"omr-bot/internal/infrastructure/keyfile"
)

type Container struct {
	UserService    *app.UserService
	GradingService *app.GradingService
	SessionService *app.SessionService
}

func New(userRepo port.UserRepository, scanner port.SheetScanner) *Container {
	userService := app.NewUserService(userRepo)
	gradingService := app.NewGradingService(userService, scanner, keyfile.ParseAnswerKey, keyfile.ParseRoster)
	sessionService := app.NewSessionService(userRepo)

	return &Container{
		UserService:    userService,
		GradingService: gradingService,
		SessionService: sessionService,
	}
}
