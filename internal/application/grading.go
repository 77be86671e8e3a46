package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/port"
)

var (
	ErrScannerNotConfigured = errors.New("scanner is not configured")
	ErrItemsOutOfRange      = errors.New("active items out of range")
	ErrEmptyKey             = errors.New("answer key has no questions")
)

// KeyParser разбирает текст ключа ответов.
type KeyParser func(r io.Reader) (string, entity.AnswerKey, error)

// RosterParser разбирает текст списка группы.
type RosterParser func(r io.Reader) (string, map[string]string, error)

type GradingService struct {
	users       *UserService
	scanner     port.SheetScanner
	parseKey    KeyParser
	parseRoster RosterParser
	defaults    Defaults
}

// Defaults тест, который проверяется, пока пользователь не загрузил свой ключ.
type Defaults struct {
	ExamName    string
	Key         entity.AnswerKey
	ActiveItems int
}

// GradingOutput содержит результат проверки бланка.
type GradingOutput struct {
	Result      *entity.ScanResult
	ExamName    string
	Section     string
	StudentName string           // пусто, если номера нет в списке
	Key         entity.AnswerKey // ключ, по которому считались баллы
}

// NewGradingService создаёт сервис, который проверяет бланки по ключу пользователя.
func NewGradingService(users *UserService, scanner port.SheetScanner, parseKey KeyParser, parseRoster RosterParser) *GradingService {
	return &GradingService{
		users:       users,
		scanner:     scanner,
		parseKey:    parseKey,
		parseRoster: parseRoster,
	}
}

// UseDefaults задаёт тест по умолчанию.
func (s *GradingService) UseDefaults(d Defaults) {
	s.defaults = d
}

// AcceptKey разбирает и сохраняет ключ ответов, возвращает пользователя в главное меню.
func (s *GradingService) AcceptKey(ctx context.Context, userID, chatID int64, r io.Reader) (*entity.User, error) {
	name, key, err := s.parseKey(r)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return s.users.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.SetKey(name, key)
		u.SetState(entity.StateMainMenu)
	})
}

// AcceptRoster разбирает и сохраняет список группы.
func (s *GradingService) AcceptRoster(ctx context.Context, userID, chatID int64, r io.Reader) (*entity.User, error) {
	section, roster, err := s.parseRoster(r)
	if err != nil {
		return nil, err
	}
	return s.users.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.SetRoster(section, roster)
		u.SetState(entity.StateMainMenu)
	})
}

// GradeSheet распознаёт бланк с настройками пользователя.
// ErrMarkersNotFound возвращается как есть: пользователь должен переснять бланк.
func (s *GradingService) GradeSheet(ctx context.Context, userID, chatID int64, photo []byte) (*GradingOutput, error) {
	if s.scanner == nil {
		return nil, ErrScannerNotConfigured
	}

	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	exam, req := s.request(user)

	result, err := s.scanner.Scan(ctx, photo, req)
	if err != nil {
		return nil, fmt.Errorf("scan sheet: %w", err)
	}

	out := &GradingOutput{
		Result:   result,
		ExamName: exam,
		Section:  user.Section,
		Key:      req.Key,
	}
	if name, ok := user.StudentName(result.StudentID); ok {
		out.StudentName = name
	}
	return out, nil
}

// KeyFor возвращает ключ, по которому будут проверяться бланки пользователя.
func (s *GradingService) KeyFor(ctx context.Context, userID, chatID int64) (string, entity.AnswerKey, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return "", nil, err
	}
	exam, req := s.request(user)
	return exam, req.Key, nil
}

// request выбирает ключ пользователя, а без него тест по умолчанию.
func (s *GradingService) request(user *entity.User) (string, entity.ScanRequest) {
	if user.Key == nil && s.defaults.Key != nil {
		return s.defaults.ExamName, entity.ScanRequest{Key: s.defaults.Key, ActiveItems: s.defaults.ActiveItems}
	}
	return user.ExamName, entity.ScanRequest{Key: user.Key, ActiveItems: user.ActiveItems}
}
