package omr

import (
	"fmt"
	"image"

	"omr-bot/internal/domain/entity"
)

// MarkerFilter критерии отбора контура как квадратной угловой метки.
type MarkerFilter struct {
	MinAreaRatio float64 // доля площади кадра, нижняя граница
	MaxAreaRatio float64 // доля площади кадра, верхняя граница
	MinAspect    float64 // нижняя граница w/h (строго)
	MaxAspect    float64 // верхняя граница w/h (строго)
	PolyEpsilon  float64 // точность аппроксимации в долях периметра
}

// DefaultMarkerFilter возвращает пороги для печатных квадратных меток.
func DefaultMarkerFilter() MarkerFilter {
	return MarkerFilter{
		MinAreaRatio: 0.0002,
		MaxAreaRatio: 0.02,
		MinAspect:    0.6,
		MaxAspect:    1.4,
		PolyEpsilon:  0.05,
	}
}

// AcceptArea проверяет площадь контура относительно площади кадра.
func (f MarkerFilter) AcceptArea(area float64, imageArea float64) bool {
	return area >= imageArea*f.MinAreaRatio && area <= imageArea*f.MaxAreaRatio
}

// AcceptBox проверяет пропорции описывающего прямоугольника.
func (f MarkerFilter) AcceptBox(box image.Rectangle) bool {
	if box.Dy() == 0 {
		return false
	}
	aspect := float64(box.Dx()) / float64(box.Dy())
	return aspect > f.MinAspect && aspect < f.MaxAspect
}

// Centroid возвращает центр масс многоугольника контура (первые моменты),
// отброшенный до целых пикселей. ok=false для вырожденного контура.
func Centroid(contour []image.Point) (p entity.Point, ok bool) {
	n := len(contour)
	if n < 3 {
		return entity.Point{}, false
	}

	var m00, m10, m01 float64
	for i := 0; i < n; i++ {
		a, b := contour[i], contour[(i+1)%n]
		cross := float64(a.X*b.Y - b.X*a.Y)
		m00 += cross
		m10 += float64(a.X+b.X) * cross
		m01 += float64(a.Y+b.Y) * cross
	}
	if m00 == 0 {
		return entity.Point{}, false
	}

	// m00 здесь удвоенная площадь, отсюда множитель 3 вместо 6
	cx := m10 / (3 * m00)
	cy := m01 / (3 * m00)
	return entity.Point{X: float64(int(cx)), Y: float64(int(cy))}, true
}

// OrderCorners выбирает четыре крайние точки и упорядочивает их TL, TR, BR, BL:
// TL = min(x+y), BR = max(x+y), TR = min(y−x), BL = max(y−x).
//
// Если кандидатов больше четырёх, остальные просто отбрасываются: никакой
// кластеризации. При равенстве побеждает лексикографически меньшая (x, y),
// так что результат не зависит от порядка входных точек.
func OrderCorners(points []entity.Point) (entity.MarkerSet, error) {
	if len(points) < 4 {
		return entity.MarkerSet{}, fmt.Errorf("%w: %d candidates", entity.ErrMarkersNotFound, len(points))
	}

	sum := func(p entity.Point) float64 { return p.X + p.Y }
	diff := func(p entity.Point) float64 { return p.Y - p.X }

	tl := extreme(points, sum, false)
	br := extreme(points, sum, true)
	tr := extreme(points, diff, false)
	bl := extreme(points, diff, true)
	return entity.MarkerSet{tl, tr, br, bl}, nil
}

func extreme(points []entity.Point, key func(entity.Point) float64, largest bool) entity.Point {
	best := points[0]
	for _, p := range points[1:] {
		kp, kb := key(p), key(best)
		better := kp < kb
		if largest {
			better = kp > kb
		}
		if better || (kp == kb && lessXY(p, best)) {
			best = p
		}
	}
	return best
}

func lessXY(a, b entity.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
