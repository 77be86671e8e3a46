package storage

import (
	"context"
	"sync"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей.
// Наружу отдаются только копии, поэтому параллельные сканы одного пользователя
// не видят чужих изменений ключа.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return user.Clone(), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreate(userID, chatID).Clone(), nil
}

// Save сохраняет пользователя целиком
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = user.Clone()
	r.mu.Unlock()

	return nil
}

// Update изменяет пользователя под блокировкой
func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, fn func(*entity.User)) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.getOrCreate(userID, chatID)
	fn(user)
	return user.Clone(), nil
}

func (r *MemoryUserRepository) getOrCreate(userID, chatID int64) *entity.User {
	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	return user
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
