package app

import (
	"context"
	"fmt"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.SetState(state)
	})
}

func (s *UserService) AwaitKey(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingKey)
}

func (s *UserService) AwaitRoster(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingRoster)
}

func (s *UserService) AwaitSheet(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingSheet)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// SetActiveItems задаёт число проверяемых вопросов (1..50).
func (s *UserService) SetActiveItems(ctx context.Context, userID, chatID int64, items int) (*entity.User, error) {
	if items < 1 || items > entity.MaxItems {
		return nil, fmt.Errorf("%w: %d", ErrItemsOutOfRange, items)
	}
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.ActiveItems = items
	})
}

// FinishProcessing возвращает пользователя в главное меню после скана,
// если за время обработки он не перешёл в другое состояние.
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		if u.State == entity.StateProcessing {
			u.SetState(entity.StateMainMenu)
		}
	})
}
