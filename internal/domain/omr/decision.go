package omr

import (
	"math"
	"sort"

	"omr-bot/internal/domain/entity"
)

const minStd = 1e-6

// RowStats статистика строки оценок одного вопроса.
type RowStats struct {
	BestIndex int
	Best      float64
	Second    float64
	Mean      float64
	Std       float64 // не меньше 1e-6
	Z         float64
}

// Stats считает статистику строки. Пустая строка даёт BestIndex = -1.
func Stats(scores []float64) RowStats {
	if len(scores) == 0 {
		return RowStats{BestIndex: -1}
	}

	best := 0
	var sum float64
	for i, s := range scores {
		sum += s
		if s > scores[best] {
			best = i
		}
	}
	mean := sum / float64(len(scores))

	var sq float64
	for _, s := range scores {
		sq += (s - mean) * (s - mean)
	}
	std := math.Max(minStd, math.Sqrt(sq/float64(len(scores))))

	var second float64
	if len(scores) > 1 {
		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)
		second = sorted[len(sorted)-2]
	}

	return RowStats{
		BestIndex: best,
		Best:      scores[best],
		Second:    second,
		Mean:      mean,
		Std:       std,
		Z:         (scores[best] - mean) / std,
	}
}

// Accepts проверяет три независимых условия: абсолютная сила метки,
// отрыв от второго кандидата и выброс над шумом строки.
func (s RowStats) Accepts(t entity.Thresholds) bool {
	return s.Best >= t.AbsMin &&
		s.Best >= s.Second+t.Margin &&
		s.Z >= t.ZMin
}

// Decide превращает оценки одного вопроса в выбранный вариант или NoAnswer.
// С forcePick лучший вариант принимается всегда.
func Decide(scores []float64, t entity.Thresholds, forcePick bool) entity.Choice {
	st := Stats(scores)
	if st.BestIndex < 0 {
		return entity.NoAnswer
	}
	if forcePick || st.Accepts(t) {
		return entity.Choice(st.BestIndex)
	}
	return entity.NoAnswer
}

// DecideRows применяет Decide к каждой строке матрицы оценок региона.
func DecideRows(scores [][]float64, cfg entity.GeometryConfig) entity.AnswerVector {
	out := make(entity.AnswerVector, 0, len(scores))
	for _, row := range scores {
		out = append(out, Decide(row, cfg.Thresholds, cfg.ForcePick))
	}
	return out
}
