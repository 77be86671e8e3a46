package omr

import (
	"sort"

	"omr-bot/internal/domain/entity"
)

// Marks отмечает совпадения с ключом среди первых limit ответов.
// Без ключа возвращает nil.
func Marks(answers entity.AnswerVector, key entity.AnswerKey, limit int) []bool {
	if key == nil {
		return nil
	}
	n := min(max(limit, 0), len(answers))
	marks := make([]bool, n)
	for i, a := range answers[:n] {
		k, ok := key.Lookup(i)
		marks[i] = ok && a != entity.NoAnswer && a == k
	}
	return marks
}

// Summary сводка баллов сессии.
type Summary struct {
	Count        int
	Mean         float64
	Median       float64
	Mode         int // первое по порядку сканов самое частое значение
	Lowest       int
	Highest      int
	LowestNames  []string
	HighestNames []string
}

// Summarize считает сводку. Для пустой сессии Count = 0 и остальные поля нулевые.
func Summarize(results []entity.SessionResult) Summary {
	s := Summary{Count: len(results)}
	if s.Count == 0 {
		return s
	}

	scores := make([]int, len(results))
	freq := make(map[int]int, len(results))
	var sum int
	s.Lowest, s.Highest = results[0].Score, results[0].Score
	for i, r := range results {
		scores[i] = r.Score
		sum += r.Score
		freq[r.Score]++
		s.Lowest = min(s.Lowest, r.Score)
		s.Highest = max(s.Highest, r.Score)
	}
	s.Mean = float64(sum) / float64(s.Count)

	best := 0
	for _, v := range scores {
		if freq[v] > best {
			best, s.Mode = freq[v], v
		}
	}

	sorted := append([]int(nil), scores...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		s.Median = float64(sorted[mid])
	} else {
		s.Median = float64(sorted[mid-1]+sorted[mid]) / 2
	}

	for _, r := range results {
		if r.Score == s.Lowest {
			s.LowestNames = append(s.LowestNames, Label(r))
		}
		if r.Score == s.Highest {
			s.HighestNames = append(s.HighestNames, Label(r))
		}
	}
	return s
}

// Label имя студента, а если его нет в списке, то номер.
func Label(r entity.SessionResult) string {
	switch {
	case r.StudentName != "":
		return r.StudentName
	case r.StudentID != "":
		return r.StudentID
	default:
		return "?"
	}
}

// ItemStat доля правильных ответов на один вопрос.
type ItemStat struct {
	Question int // с 1
	Correct  int
	Percent  float64
}

// ItemAnalysis считает долю правильных ответов по каждому вопросу
// среди всех результатов сессии. Без проверенных результатов возвращает nil.
func ItemAnalysis(results []entity.SessionResult) []ItemStat {
	items := 0
	graded := false
	for _, r := range results {
		items = max(items, r.MaxScore)
		graded = graded || r.Correct != nil
	}
	if !graded || items == 0 {
		return nil
	}

	stats := make([]ItemStat, items)
	for i := range stats {
		stats[i].Question = i + 1
	}
	for _, r := range results {
		for i, ok := range r.Correct {
			if ok && i < items {
				stats[i].Correct++
			}
		}
	}
	n := float64(len(results))
	for i := range stats {
		stats[i].Percent = 100 * float64(stats[i].Correct) / n
	}
	return stats
}
