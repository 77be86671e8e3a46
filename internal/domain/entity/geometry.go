package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry возвращается, если конфигурация геометрии бланка некорректна.
var ErrInvalidGeometry = errors.New("invalid geometry config")

// ErrDegenerateRegion регион калибровки схлопнулся в пустой прямоугольник.
// Не возвращается из конвейера: такой регион просто не даёт оценок.
var ErrDegenerateRegion = errors.New("region has zero pixel area")

const (
	AnswerRegionCount = 5  // количество блоков ответов на бланке
	RowsPerRegion     = 10 // вопросов в одном блоке
	ChoicesPerRow     = 5  // вариантов ответа A..E
	IDDigitRows       = 10 // значения цифр в блоке ID
	IDDigitColumns    = 5  // длина номера студента
	MaxItems          = AnswerRegionCount * RowsPerRegion
)

// Region прямоугольник в долях нормализованного холста.
type Region struct {
	Top    float64 // y_top
	Bottom float64 // y_bottom
	Left   float64 // x_left
	Right  float64 // x_right
}

// PixelBox переводит доли в пиксели холста (с отбрасыванием дробной части).
func (r Region) PixelBox(width, height int) (y1, y2, x1, x2 int) {
	return int(float64(height) * r.Top), int(float64(height) * r.Bottom),
		int(float64(width) * r.Left), int(float64(width) * r.Right)
}

// Margins поля внутри региона в долях его высоты/ширины.
type Margins struct {
	RowTop    float64
	RowBottom float64
	ColLeft   float64
	ColRight  float64
}

// Thresholds пороги правила выбора ответа.
type Thresholds struct {
	AbsMin float64 // минимальная абсолютная сила метки
	Margin float64 // минимальный отрыв лучшего от второго
	ZMin   float64 // минимальный z-score лучшего
}

// CLAHE параметры локального выравнивания контраста.
type CLAHE struct {
	ClipLimit float64
	TileGrid  int
}

// GeometryConfig неизменяемая калибровка бланка.
// Передаётся по значению в каждый вызов конвейера.
type GeometryConfig struct {
	CanvasWidth  int
	CanvasHeight int
	Padding      int

	Margins     Margins
	RadiusScale float64
	RowShiftPx  float64
	ColShiftPx  float64

	Thresholds Thresholds
	ForcePick  bool
	MarkBlanks bool

	CLAHE CLAHE

	AnswerRegions [AnswerRegionCount]Region
	IDRegion      Region
}

// DefaultGeometry возвращает калибровку, с которой поставляется бланк.
func DefaultGeometry() GeometryConfig {
	return GeometryConfig{
		CanvasWidth:  1200,
		CanvasHeight: 1600,
		Padding:      80,
		Margins: Margins{
			RowTop:    0.06,
			RowBottom: 0.06,
			ColLeft:   0.08,
			ColRight:  0.08,
		},
		RadiusScale: 0.39256198347107435,
		Thresholds: Thresholds{
			AbsMin: 0.01,
			Margin: 0.01,
			ZMin:   0.6,
		},
		MarkBlanks: true,
		CLAHE:      CLAHE{ClipLimit: 2.0, TileGrid: 8},
		AnswerRegions: [AnswerRegionCount]Region{
			{0.558303886925795, 0.9063670411985019, 0.18815331010452963, 0.3763440860215054},
			{0.18374558303886926, 0.528957528957529, 0.43309859154929575, 0.6204379562043796},
			{0.558303886925795, 0.9073359073359073, 0.43661971830985913, 0.6167883211678832},
			{0.18374558303886926, 0.5328185328185329, 0.676056338028169, 0.8613138686131386},
			{0.56, 0.9073359073359073, 0.6725352112676056, 0.8613138686131386},
		},
		IDRegion: Region{0.18021201413427562, 0.528957528957529, 0.18309859154929578, 0.38321167883211676},
	}
}

// Destination углы целевого прямоугольника TL, TR, BR, BL.
func (g GeometryConfig) Destination() MarkerSet {
	w, h, p := float64(g.CanvasWidth), float64(g.CanvasHeight), float64(g.Padding)
	return MarkerSet{
		{X: p, Y: p},
		{X: w - p, Y: p},
		{X: w - p, Y: h - p},
		{X: p, Y: h - p},
	}
}

// Validate проверяет конфигурацию целиком.
func (g GeometryConfig) Validate() error {
	if g.CanvasWidth <= 0 || g.CanvasHeight <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidGeometry, g.CanvasWidth, g.CanvasHeight)
	}
	if g.Padding < 0 || 2*g.Padding >= g.CanvasWidth || 2*g.Padding >= g.CanvasHeight {
		return fmt.Errorf("%w: padding %d leaves no destination rectangle", ErrInvalidGeometry, g.Padding)
	}

	m := g.Margins
	for _, v := range []float64{m.RowTop, m.RowBottom, m.ColLeft, m.ColRight} {
		if v < 0 || v >= 1 {
			return fmt.Errorf("%w: margin %v out of [0,1)", ErrInvalidGeometry, v)
		}
	}
	if m.RowTop+m.RowBottom >= 1 || m.ColLeft+m.ColRight >= 1 {
		return fmt.Errorf("%w: margins leave no usable interior", ErrInvalidGeometry)
	}
	if g.RadiusScale <= 0 {
		return fmt.Errorf("%w: radius scale %v", ErrInvalidGeometry, g.RadiusScale)
	}

	t := g.Thresholds
	if t.AbsMin < 0 || t.Margin < 0 || t.ZMin < 0 {
		return fmt.Errorf("%w: negative threshold", ErrInvalidGeometry)
	}
	if g.CLAHE.ClipLimit <= 0 || g.CLAHE.TileGrid <= 0 {
		return fmt.Errorf("%w: clahe clip %v tile %d", ErrInvalidGeometry, g.CLAHE.ClipLimit, g.CLAHE.TileGrid)
	}

	for i, r := range g.AnswerRegions {
		if err := r.validate(); err != nil {
			return fmt.Errorf("%w: answer region %d: %v", ErrInvalidGeometry, i, err)
		}
	}
	if err := g.IDRegion.validate(); err != nil {
		return fmt.Errorf("%w: id region: %v", ErrInvalidGeometry, err)
	}
	return nil
}

func (r Region) validate() error {
	for _, v := range []float64{r.Top, r.Bottom, r.Left, r.Right} {
		if v < 0 || v > 1 {
			return fmt.Errorf("fraction %v out of [0,1]", v)
		}
	}
	if r.Top >= r.Bottom {
		return fmt.Errorf("top %v >= bottom %v", r.Top, r.Bottom)
	}
	if r.Left >= r.Right {
		return fmt.Errorf("left %v >= right %v", r.Left, r.Right)
	}
	return nil
}
