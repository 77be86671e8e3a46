package omr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
)

func TestMarks(t *testing.T) {
	key := entity.AnswerKey{1: 0, 2: 1, 4: 3}
	answers := entity.AnswerVector{0, 2, entity.NoAnswer, 3, 4}

	require.Equal(t, []bool{true, false, false, true}, Marks(answers, key, 4))
	require.Equal(t, []bool{true}, Marks(answers, key, 1))
	require.Nil(t, Marks(answers, nil, 4))
}

func TestSummarize(t *testing.T) {
	results := []entity.SessionResult{
		{StudentID: "00001", StudentName: "Ivanov", Score: 7},
		{StudentID: "00002", Score: 3},
		{StudentID: "00003", StudentName: "Petrov", Score: 9},
		{StudentID: "00004", StudentName: "Sidorov", Score: 3},
	}

	s := Summarize(results)
	require.Equal(t, 4, s.Count)
	require.InDelta(t, 5.5, s.Mean, 1e-9)
	require.InDelta(t, 5.0, s.Median, 1e-9)
	require.Equal(t, 3, s.Mode)
	require.Equal(t, 3, s.Lowest)
	require.Equal(t, 9, s.Highest)
	require.Equal(t, []string{"00002", "Sidorov"}, s.LowestNames)
	require.Equal(t, []string{"Petrov"}, s.HighestNames)
}

func TestSummarize_OddAndModeTie(t *testing.T) {
	s := Summarize([]entity.SessionResult{{Score: 5}, {Score: 2}, {Score: 8}})
	require.InDelta(t, 5.0, s.Median, 1e-9)
	// все значения встречаются по разу: побеждает первое
	require.Equal(t, 5, s.Mode)
	require.Equal(t, []string{"?"}, s.LowestNames)
}

func TestSummarize_Empty(t *testing.T) {
	require.Equal(t, Summary{}, Summarize(nil))
}

func TestItemAnalysis(t *testing.T) {
	results := []entity.SessionResult{
		{MaxScore: 3, Correct: []bool{true, true, false}},
		{MaxScore: 3, Correct: []bool{true, false, false}},
		{MaxScore: 3, Correct: []bool{true, true, true}},
		{MaxScore: 3, Correct: []bool{false, false, false}},
	}

	stats := ItemAnalysis(results)
	require.Equal(t, []ItemStat{
		{Question: 1, Correct: 3, Percent: 75},
		{Question: 2, Correct: 2, Percent: 50},
		{Question: 3, Correct: 1, Percent: 25},
	}, stats)
}

func TestItemAnalysis_MixedItemCounts(t *testing.T) {
	results := []entity.SessionResult{
		{MaxScore: 1, Correct: []bool{true}},
		{MaxScore: 2, Correct: []bool{true, true}},
	}

	stats := ItemAnalysis(results)
	require.Len(t, stats, 2)
	require.InDelta(t, 100.0, stats[0].Percent, 1e-9)
	require.InDelta(t, 50.0, stats[1].Percent, 1e-9)
}

func TestItemAnalysis_WithoutKey(t *testing.T) {
	require.Nil(t, ItemAnalysis([]entity.SessionResult{{MaxScore: 5}}))
	require.Nil(t, ItemAnalysis(nil))
}
