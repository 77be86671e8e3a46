package omr

import (
	"strings"

	"omr-bot/internal/domain/entity"
)

// DecodeStudentID выбирает в каждой колонке строку с максимальной оценкой.
// Порогов нет: номер всегда полной длины, даже если метки слабые.
// Возвращает номер и индексы выбранных строк по колонкам.
// Пустая матрица (вырожденный регион) даёт пустую строку.
func DecodeStudentID(scores [][]float64) (string, []int) {
	if len(scores) == 0 || len(scores[0]) == 0 {
		return "", nil
	}

	rows, cols := len(scores), len(scores[0])
	picks := make([]int, cols)
	var sb strings.Builder
	for c := 0; c < cols; c++ {
		best := 0
		for r := 1; r < rows; r++ {
			if scores[r][c] > scores[best][c] {
				best = r
			}
		}
		picks[c] = best
		sb.WriteByte(entity.DigitsTopToBottom[best%len(entity.DigitsTopToBottom)])
	}
	return sb.String(), picks
}
