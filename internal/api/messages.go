package telegram

import (
	"fmt"
	"strings"

	app "omr-bot/internal/application"
	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/omr"
)

const (
	msgStart = `👋 Привет! Я бот для проверки бланков ответов.

📸 Отправьте фото заполненного бланка, и я распознаю номер студента и ответы.

📋 Команды:
/key — загрузить ключ ответов
/showkey — показать текущий ключ
/roster — загрузить список группы
/items N — проверять только первые N вопросов
/scan — проверить бланк
/stats — статистика сессии
/analysis — доля правильных ответов по вопросам
/newsession — начать новую сессию
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Загрузите ключ ответов командой /key
2️⃣ При желании загрузите список группы командой /roster
3️⃣ Отправьте фото бланка
4️⃣ Вы получите результат: номер, баллы и фото с разметкой
5️⃣ Результаты копятся в сессии: /stats и /analysis покажут итоги группы

💡 Рекомендации:
• Все четыре угловые метки должны быть в кадре
• Снимайте сверху, без сильного наклона
• Избегайте бликов и теней

📄 Формат ключа (текстом или файлом):
Контрольная 1
1: B
2: D

📄 Формат списка группы:
Группа 101
Иванов Иван, 00001`

	msgAwaitingKey     = "🔑 Отправьте ключ ответов текстом или файлом .txt."
	msgAwaitingRoster  = "👥 Отправьте список группы текстом или файлом .txt."
	msgAwaitingSheet   = "📸 Отправьте фото бланка для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /scan для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото бланка ответов."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgItemsUsage      = "🔢 Укажите число вопросов от 1 до 50, например: /items 20"
	msgEmptyKey        = "⚠️ В ключе не найдено ни одного ответа. Формат строки: 12: B"
	msgBadFile         = "⚠️ Не удалось прочитать файл."
	msgMarkersNotFound = "🔲 Не удалось найти все четыре угловые метки. Выровняйте бланк так, чтобы метки были видны, и сфотографируйте ещё раз."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgVisionDisabled  = "⚠️ Распознавание недоступно: бот собран без OpenCV."
	msgNoKey           = "🔑 Ключ ответов не загружен. Используйте /key."
	msgNewSession      = "🆕 Начата новая сессия, прежние результаты удалены."
	msgNoResults       = "📊 В этой сессии ещё нет проверенных бланков."
	msgNoAnalysis      = "📊 Нет бланков, проверенных по ключу."
)

// namesShown сколько имён выводить у минимума и максимума
const namesShown = 3

func keyAccepted(user *entity.User) string {
	return fmt.Sprintf("✅ Ключ «%s» загружен: %d вопросов.", user.ExamName, len(user.Key))
}

func rosterAccepted(user *entity.User) string {
	return fmt.Sprintf("✅ Список «%s» загружен: %d студентов.", user.Section, len(user.Roster))
}

func itemsAccepted(user *entity.User) string {
	return fmt.Sprintf("✅ Проверяются первые %d вопросов.", user.ActiveItems)
}

// formatResult собирает подпись к размеченному бланку.
func formatResult(out *app.GradingOutput) string {
	res := out.Result
	var sb strings.Builder

	if out.ExamName != "" {
		fmt.Fprintf(&sb, "📝 %s\n", out.ExamName)
	}

	id := res.StudentID
	if id == "" {
		id = "не распознан"
	}
	if out.StudentName != "" {
		fmt.Fprintf(&sb, "🎓 ID: %s (%s)\n", id, out.StudentName)
	} else {
		fmt.Fprintf(&sb, "🎓 ID: %s\n", id)
	}

	if res.Graded {
		fmt.Fprintf(&sb, "✅ Баллы: %d/%d\n", res.Score, res.ActiveItems)
	} else {
		sb.WriteString("ℹ️ Ключ не загружен, баллы не подсчитаны\n")
	}

	sb.WriteString("Ответы: ")
	sb.WriteString(formatAnswers(res.Answers, res.ActiveItems))

	for _, w := range res.Warnings {
		fmt.Fprintf(&sb, "\n⚠️ %s", w)
	}
	return sb.String()
}

// formatAnswers выводит ответы группами по пять: "ABCDE -BA-C".
func formatAnswers(answers entity.AnswerVector, limit int) string {
	n := min(max(limit, 0), len(answers))
	var sb strings.Builder
	for i, a := range answers[:n] {
		if i > 0 && i%5 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

func duplicateNote(studentID string) string {
	return fmt.Sprintf("\n\n🚫 Номер %s уже проверен в этой сессии, результат не сохранён.", studentID)
}

// formatSummary выводит сводку баллов сессии.
func formatSummary(s omr.Summary) string {
	if s.Count == 0 {
		return msgNoResults
	}
	var sb strings.Builder
	sb.WriteString("📊 Статистика сессии\n")
	fmt.Fprintf(&sb, "Проверено: %d\n", s.Count)
	fmt.Fprintf(&sb, "Среднее: %.2f\n", s.Mean)
	fmt.Fprintf(&sb, "Медиана: %g\n", s.Median)
	fmt.Fprintf(&sb, "Мода: %d\n", s.Mode)
	fmt.Fprintf(&sb, "Минимум: %d (%s)\n", s.Lowest, formatNames(s.LowestNames))
	fmt.Fprintf(&sb, "Максимум: %d (%s)", s.Highest, formatNames(s.HighestNames))
	return sb.String()
}

func formatNames(names []string) string {
	if len(names) <= namesShown {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s и ещё %d", strings.Join(names[:namesShown], ", "), len(names)-namesShown)
}

// formatItemAnalysis выводит по строке на вопрос: процент и число верных ответов.
func formatItemAnalysis(stats []omr.ItemStat) string {
	if len(stats) == 0 {
		return msgNoAnalysis
	}
	var sb strings.Builder
	sb.WriteString("📈 Правильные ответы по вопросам")
	for _, st := range stats {
		fmt.Fprintf(&sb, "\n%2d: %5.1f%% (%d)", st.Question, st.Percent, st.Correct)
	}
	return sb.String()
}
