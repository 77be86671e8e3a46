package omr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
)

func idMatrix(columns ...[]float64) [][]float64 {
	rows := make([][]float64, entity.IDDigitRows)
	for r := range rows {
		rows[r] = make([]float64, len(columns))
		for c, col := range columns {
			rows[r][c] = col[r]
		}
	}
	return rows
}

func column(hot int, value float64) []float64 {
	col := make([]float64, entity.IDDigitRows)
	col[hot] = value
	return col
}

func TestDecodeStudentID(t *testing.T) {
	scores := idMatrix(
		column(0, 0.8),
		column(9, 0.7),
		column(4, 0.9),
		column(1, 0.6),
		column(8, 0.75),
	)
	id, picks := DecodeStudentID(scores)
	require.Equal(t, "10529", id)
	require.Equal(t, []int{0, 9, 4, 1, 8}, picks)
}

func TestDecodeStudentID_LowScoresStillPick(t *testing.T) {
	low := []float64{0.05, 0.04, 0.03, 0.02, 0.01, 0, 0, 0, 0, 0}
	id, _ := DecodeStudentID(idMatrix(low, low, low, low, low))
	require.Equal(t, "11111", id)
}

func TestDecodeStudentID_AlwaysFullLength(t *testing.T) {
	zero := make([]float64, entity.IDDigitRows)
	id, picks := DecodeStudentID(idMatrix(zero, zero, zero, zero, zero))
	require.Len(t, id, entity.IDDigitColumns)
	require.Equal(t, "11111", id)
	require.Equal(t, []int{0, 0, 0, 0, 0}, picks)
}

func TestDecodeStudentID_Empty(t *testing.T) {
	id, picks := DecodeStudentID(nil)
	require.Empty(t, id)
	require.Nil(t, picks)
}
