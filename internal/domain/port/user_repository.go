package port

import (
	"context"

	"omr-bot/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей и их настроек проверки
type UserRepository interface {
	// Get возвращает копию пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет пользователя целиком
	Save(ctx context.Context, user *entity.User) error

	// Update атомарно изменяет пользователя и возвращает новое состояние
	Update(ctx context.Context, userID, chatID int64, fn func(*entity.User)) (*entity.User, error)
}
