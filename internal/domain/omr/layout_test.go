package omr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
)

func TestLayout_FirstAnswerRegion(t *testing.T) {
	cfg := entity.DefaultGeometry()
	g := Layout(cfg.CanvasWidth, cfg.CanvasHeight, cfg.AnswerRegions[0], entity.RowsPerRegion, entity.ChoicesPerRow, cfg)

	require.False(t, g.Empty())
	require.Len(t, g.Centers, entity.RowsPerRegion)
	for _, row := range g.Centers {
		require.Len(t, row, entity.ChoicesPerRow)
	}

	// y: 893 + 557*0.06 .. + 557*0.88; x: 225 + 226*0.08 .. + 226*0.84
	require.Equal(t, image.Pt(243, 926), g.Centers[0][0])
	require.Equal(t, image.Pt(432, 1416), g.Centers[9][4])

	base := 226 * 0.84 / 4
	require.InDelta(t, base*0.60, g.Radii.Disk, 1e-9)
	require.InDelta(t, base*0.72, g.Radii.RingInner, 1e-9)
	require.InDelta(t, base*0.98, g.Radii.RingOuter, 1e-9)
	require.Equal(t, 18, g.DrawRadius)
}

func TestLayout_RowsEvenlySpaced(t *testing.T) {
	cfg := entity.DefaultGeometry()
	cfg.Margins = entity.Margins{}
	region := entity.Region{Top: 0, Bottom: 0.5, Left: 0, Right: 0.5}

	g := Layout(1000, 1000, region, 6, 6, cfg)
	require.Equal(t, image.Pt(0, 0), g.Centers[0][0])
	require.Equal(t, image.Pt(100, 100), g.Centers[1][1])
	require.Equal(t, image.Pt(500, 500), g.Centers[5][5])
}

func TestLayout_ShiftApplied(t *testing.T) {
	cfg := entity.DefaultGeometry()
	cfg.Margins = entity.Margins{}
	cfg.RowShiftPx, cfg.ColShiftPx = 7, -3
	region := entity.Region{Top: 0.1, Bottom: 0.5, Left: 0.1, Right: 0.5}

	g := Layout(1000, 1000, region, 5, 5, cfg)
	require.Equal(t, image.Pt(97, 107), g.Centers[0][0])
}

func TestLayout_SingleRowUsesColumnSpacing(t *testing.T) {
	cfg := entity.DefaultGeometry()
	cfg.Margins = entity.Margins{}
	region := entity.Region{Top: 0, Bottom: 0.2, Left: 0, Right: 0.4}

	g := Layout(1000, 1000, region, 1, 5, cfg)
	require.Len(t, g.Centers, 1)
	require.InDelta(t, 100*0.60, g.Radii.Disk, 1e-9)
}

func TestLayout_MinSpacingFloor(t *testing.T) {
	cfg := entity.DefaultGeometry()
	cfg.Margins = entity.Margins{}
	region := entity.Region{Top: 0, Bottom: 0.01, Left: 0, Right: 0.01}

	g := Layout(200, 200, region, 5, 5, cfg)
	require.InDelta(t, minSpacing*0.98, g.Radii.RingOuter, 1e-9)
}

func TestLayout_DegenerateRegion(t *testing.T) {
	cfg := entity.DefaultGeometry()
	region := entity.Region{Top: 0.5, Bottom: 0.5000001, Left: 0.1, Right: 0.2}

	g := Layout(cfg.CanvasWidth, cfg.CanvasHeight, region, 10, 5, cfg)
	require.True(t, g.Empty())
	require.Equal(t, 0, g.DrawRadius)
}

func TestFillScore(t *testing.T) {
	require.InDelta(t, 0.8, FillScore(40, 200), 1e-12)
	require.Equal(t, 0.0, FillScore(200, 100))
	require.Equal(t, 0.0, FillScore(0, 0))
	require.InDelta(t, 0.5, FillScore(0, 0.5), 1e-12)
}
