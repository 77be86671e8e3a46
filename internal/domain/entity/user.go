package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu       UserState = "main_menu"       // В главном меню
	StateAwaitingKey    UserState = "awaiting_key"    // Ожидание ключа ответов
	StateAwaitingRoster UserState = "awaiting_roster" // Ожидание списка группы
	StateAwaitingSheet  UserState = "awaiting_sheet"  // Ожидание фото бланка
	StateProcessing     UserState = "processing"      // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя

	ExamName    string            // название теста из файла ключа
	Key         AnswerKey         // ключ ответов, nil если не загружен
	Section     string            // название группы
	Roster      map[string]string // номер студента -> ФИО
	ActiveItems int               // число проверяемых вопросов

	Results []SessionResult // результаты текущей сессии по порядку сканов
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:          userID,
		ChatID:      chatID,
		State:       StateMainMenu,
		ActiveItems: MaxItems,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetKey сохраняет ключ ответов
func (u *User) SetKey(examName string, key AnswerKey) {
	u.ExamName = examName
	u.Key = key
}

// SetRoster сохраняет список группы
func (u *User) SetRoster(section string, roster map[string]string) {
	u.Section = section
	u.Roster = roster
}

// StudentName возвращает ФИО по номеру, если студент есть в списке
func (u *User) StudentName(studentID string) (string, bool) {
	name, ok := u.Roster[studentID]
	return name, ok
}

// Clone возвращает независимую копию пользователя
func (u *User) Clone() *User {
	c := *u
	if u.Key != nil {
		c.Key = make(AnswerKey, len(u.Key))
		for q, a := range u.Key {
			c.Key[q] = a
		}
	}
	if u.Roster != nil {
		c.Roster = make(map[string]string, len(u.Roster))
		for id, name := range u.Roster {
			c.Roster[id] = name
		}
	}
	if u.Results != nil {
		c.Results = make([]SessionResult, len(u.Results))
		for i, r := range u.Results {
			c.Results[i] = r.clone()
		}
	}
	return &c
}
