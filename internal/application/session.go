package app

import (
	"context"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/omr"
	"omr-bot/internal/domain/port"
)

// SessionService хранит подтверждённые результаты и считает по ним статистику.
type SessionService struct {
	repo port.UserRepository
}

func NewSessionService(repo port.UserRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Record сохраняет результат проверки в сессию пользователя.
// Повторный номер студента отклоняется с entity.ErrDuplicateStudent.
func (s *SessionService) Record(ctx context.Context, userID, chatID int64, out *GradingOutput) (entity.SessionResult, error) {
	res := out.Result
	items := min(res.ActiveItems, len(res.Answers))
	record := entity.SessionResult{
		StudentID:   res.StudentID,
		StudentName: out.StudentName,
		ExamName:    out.ExamName,
		Section:     out.Section,
		Score:       res.Score,
		MaxScore:    res.ActiveItems,
		Answers:     append(entity.AnswerVector(nil), res.Answers[:items]...),
		Correct:     omr.Marks(res.Answers, out.Key, res.ActiveItems),
	}

	duplicate := false
	_, err := s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		if u.HasStudent(record.StudentID) {
			duplicate = true
			return
		}
		u.Results = append(u.Results, record)
	})
	if err != nil {
		return entity.SessionResult{}, err
	}
	if duplicate {
		return record, entity.ErrDuplicateStudent
	}
	return record, nil
}

// Results возвращает результаты сессии по порядку сканов.
func (s *SessionService) Results(ctx context.Context, userID, chatID int64) ([]entity.SessionResult, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return user.Results, nil
}

func (s *SessionService) Summary(ctx context.Context, userID, chatID int64) (omr.Summary, error) {
	results, err := s.Results(ctx, userID, chatID)
	if err != nil {
		return omr.Summary{}, err
	}
	return omr.Summarize(results), nil
}

func (s *SessionService) ItemAnalysis(ctx context.Context, userID, chatID int64) ([]omr.ItemStat, error) {
	results, err := s.Results(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return omr.ItemAnalysis(results), nil
}

// Reset начинает новую сессию.
func (s *SessionService) Reset(ctx context.Context, userID, chatID int64) error {
	_, err := s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.ResetSession()
	})
	return err
}
