package omr

import "omr-bot/internal/domain/entity"

// Grade считает совпадения с ключом среди первых limit ответов.
// Вопросы без ответа и без ключа правильными не считаются.
func Grade(answers entity.AnswerVector, key entity.AnswerKey, limit int) int {
	n := min(max(limit, 0), len(answers))

	correct := 0
	for i, a := range answers[:n] {
		k, ok := key.Lookup(i)
		if ok && a != entity.NoAnswer && a == k {
			correct++
		}
	}
	return correct
}
