package entity

import "errors"

// ErrMarkersNotFound возвращается, если на снимке найдено меньше четырёх угловых меток.
// Повтор остаётся на стороне вызывающего: нужно выровнять бланк и переснять.
var ErrMarkersNotFound = errors.New("4 corner markers not found")

// Point точка в пикселях.
type Point struct {
	X float64
	Y float64
}

// MarkerSet четыре угловые метки в порядке TL, TR, BR, BL.
type MarkerSet [4]Point

// TL левый верхний угол
func (m MarkerSet) TL() Point { return m[0] }

// TR правый верхний угол
func (m MarkerSet) TR() Point { return m[1] }

// BR правый нижний угол
func (m MarkerSet) BR() Point { return m[2] }

// BL левый нижний угол
func (m MarkerSet) BL() Point { return m[3] }
