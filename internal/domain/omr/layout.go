package omr

import (
	"image"
	"math"

	"omr-bot/internal/domain/entity"
)

const (
	minSpacing      = 4.0
	singleSpacing   = 999.0 // шаг для сетки из одной строки/колонки
	diskFactor      = 0.60
	ringInnerFactor = 0.72
	ringOuterFactor = 0.98
)

// Radii концентрические радиусы пробы пузырька.
type Radii struct {
	Disk      float64 // внутренний диск
	RingInner float64 // внутренняя граница кольца
	RingOuter float64 // внешняя граница кольца
}

// Grid центры пузырьков региона в пикселях холста.
type Grid struct {
	Centers    [][]image.Point // rows × cols
	Radii      Radii
	DrawRadius int
}

// Empty сообщает, что регион выродился в пустой прямоугольник.
func (g Grid) Empty() bool {
	return len(g.Centers) == 0
}

// Layout раскладывает rows×cols центров внутри региона.
// Первый и последний центр лежат ровно на границах полей.
// Вырожденный регион даёт пустую сетку без ошибки.
func Layout(width, height int, region entity.Region, rows, cols int, cfg entity.GeometryConfig) Grid {
	y1, y2, x1, x2 := region.PixelBox(width, height)
	gh, gw := float64(y2-y1), float64(x2-x1)
	if gh <= 0 || gw <= 0 || rows <= 0 || cols <= 0 {
		return Grid{}
	}

	m := cfg.Margins
	usableH := gh * (1.0 - m.RowTop - m.RowBottom)
	usableW := gw * (1.0 - m.ColLeft - m.ColRight)

	rowCenters := linspace(usableH, rows)
	for i := range rowCenters {
		rowCenters[i] += cfg.RowShiftPx + gh*m.RowTop
	}
	colCenters := linspace(usableW, cols)
	for i := range colCenters {
		colCenters[i] += cfg.ColShiftPx + gw*m.ColLeft
	}

	base := math.Max(minSpacing, math.Min(spacing(rowCenters), spacing(colCenters)))

	centers := make([][]image.Point, rows)
	for r, cy := range rowCenters {
		row := make([]image.Point, cols)
		for c, cx := range colCenters {
			row[c] = image.Pt(int(float64(x1)+cx), int(float64(y1)+cy))
		}
		centers[r] = row
	}

	return Grid{
		Centers: centers,
		Radii: Radii{
			Disk:      base * diskFactor,
			RingInner: base * ringInnerFactor,
			RingOuter: base * ringOuterFactor,
		},
		DrawRadius: int(base * cfg.RadiusScale),
	}
}

// linspace n равномерных точек на [0, stop], последняя ровно stop.
func linspace(stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	step := stop / float64(n-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	out[n-1] = stop
	return out
}

func spacing(centers []float64) float64 {
	if len(centers) < 2 {
		return singleSpacing
	}
	return centers[1] - centers[0]
}

// FillScore нормированное падение яркости центра относительно кольца.
// Заполненный пузырёк темнее в центре, чем его незаполненное окружение.
func FillScore(diskMean, ringMean float64) float64 {
	return math.Max(0, (ringMean-diskMean)/math.Max(1, ringMean))
}
