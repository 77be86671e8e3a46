package omr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
)

var scenarioThresholds = entity.Thresholds{AbsMin: 0.6, Margin: 0.1, ZMin: 0.6}

func TestDecide_ClearMark(t *testing.T) {
	got := Decide([]float64{0.9, 0.1, 0.1, 0.1, 0.1}, scenarioThresholds, false)
	require.Equal(t, entity.Choice(0), got)
}

func TestDecide_TwoSimilarMarks(t *testing.T) {
	got := Decide([]float64{0.5, 0.48, 0.1, 0.1, 0.1}, scenarioThresholds, false)
	require.Equal(t, entity.NoAnswer, got)
}

func TestDecide_FaintRow(t *testing.T) {
	got := Decide([]float64{0.02, 0.01, 0.015, 0.01, 0.012}, scenarioThresholds, false)
	require.Equal(t, entity.NoAnswer, got)
}

func TestDecide_ForcePick(t *testing.T) {
	got := Decide([]float64{0.02, 0.01, 0.015, 0.01, 0.012}, scenarioThresholds, true)
	require.Equal(t, entity.Choice(0), got)

	got = Decide([]float64{0.1, 0.5, 0.48, 0.1, 0.1}, scenarioThresholds, true)
	require.Equal(t, entity.Choice(1), got)
}

func TestDecide_EmptyRow(t *testing.T) {
	require.Equal(t, entity.NoAnswer, Decide(nil, scenarioThresholds, true))
}

func TestStats(t *testing.T) {
	st := Stats([]float64{0.9, 0.1, 0.1, 0.1, 0.1})
	require.Equal(t, 0, st.BestIndex)
	require.InDelta(t, 0.9, st.Best, 1e-12)
	require.InDelta(t, 0.1, st.Second, 1e-12)
	require.InDelta(t, 0.26, st.Mean, 1e-12)
	require.InDelta(t, 0.32, st.Std, 1e-9)
	require.InDelta(t, 2.0, st.Z, 1e-6)
}

func TestStats_UniformRowFloorsStd(t *testing.T) {
	st := Stats([]float64{0, 0, 0, 0, 0})
	require.Equal(t, 0, st.BestIndex)
	require.Equal(t, minStd, st.Std)
	require.Equal(t, 0.0, st.Z)
	require.False(t, st.Accepts(entity.DefaultGeometry().Thresholds))
}

func TestStats_TieKeepsFirstAndSecondEqualsBest(t *testing.T) {
	st := Stats([]float64{0.1, 0.7, 0.7, 0.0, 0.0})
	require.Equal(t, 1, st.BestIndex)
	require.Equal(t, st.Best, st.Second)
	require.False(t, st.Accepts(entity.Thresholds{Margin: 0.01}))
}

func TestStats_SingleChoice(t *testing.T) {
	st := Stats([]float64{0.4})
	require.Equal(t, 0.0, st.Second)
}

func TestAccepts_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		row := make([]float64, entity.ChoicesPerRow)
		for j := range row {
			row[j] = rng.Float64() * 0.3
		}
		row[rng.Intn(len(row))] += rng.Float64() * 0.7

		th := entity.Thresholds{
			AbsMin: rng.Float64() * 0.5,
			Margin: rng.Float64() * 0.3,
			ZMin:   rng.Float64() * 1.5,
		}
		st := Stats(row)
		if !st.Accepts(th) {
			continue
		}

		stronger := st
		stronger.Best += rng.Float64()
		stronger.Z = (stronger.Best - st.Mean) / st.Std
		require.True(t, stronger.Accepts(th), "row %v", row)

		looser := th
		looser.AbsMin *= rng.Float64()
		looser.Margin *= rng.Float64()
		looser.ZMin *= rng.Float64()
		require.True(t, st.Accepts(looser), "row %v", row)
	}
}

func TestDecideRows(t *testing.T) {
	cfg := entity.DefaultGeometry()
	cfg.Thresholds = scenarioThresholds
	got := DecideRows([][]float64{
		{0.9, 0.1, 0.1, 0.1, 0.1},
		{0.5, 0.48, 0.1, 0.1, 0.1},
		{0.1, 0.1, 0.1, 0.95, 0.1},
	}, cfg)
	require.Equal(t, entity.AnswerVector{0, entity.NoAnswer, 3}, got)
}
