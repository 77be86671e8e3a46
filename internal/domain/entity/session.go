package entity

import "errors"

// ErrDuplicateStudent номер студента уже есть среди результатов сессии.
var ErrDuplicateStudent = errors.New("student id already scanned in this session")

// SessionResult сохранённый результат одного бланка.
type SessionResult struct {
	StudentID   string
	StudentName string // пусто, если номера нет в списке
	ExamName    string
	Section     string
	Score       int
	MaxScore    int          // число проверяемых вопросов на момент скана
	Answers     AnswerVector // первые MaxScore ответов
	Correct     []bool       // совпадения с ключом, nil без ключа
}

// HasStudent сообщает, сохранён ли уже результат с таким номером.
// Нераспознанный (пустой) номер дубликатом не считается.
func (u *User) HasStudent(studentID string) bool {
	if studentID == "" {
		return false
	}
	for _, r := range u.Results {
		if r.StudentID == studentID {
			return true
		}
	}
	return false
}

// ResetSession очищает результаты сессии.
func (u *User) ResetSession() {
	u.Results = nil
}

func (r SessionResult) clone() SessionResult {
	c := r
	c.Answers = append(AnswerVector(nil), r.Answers...)
	if r.Correct != nil {
		c.Correct = append([]bool(nil), r.Correct...)
	}
	return c
}
