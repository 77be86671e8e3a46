//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"omr-bot/internal/domain/entity"
)

// Normalize переносит бланк по четырём меткам на холст фиксированного размера.
// Вырожденное (почти коллинеарное) положение меток не проверяется.
func (s *SheetScanner) Normalize(src gocv.Mat, markers entity.MarkerSet) gocv.Mat {
	from := gocv.NewPoint2fVectorFromPoints(toPoint2f(markers))
	defer from.Close()
	to := gocv.NewPoint2fVectorFromPoints(toPoint2f(s.Geometry.Destination()))
	defer to.Close()

	transform := gocv.GetPerspectiveTransform2f(from, to)
	defer transform.Close()

	out := gocv.NewMat()
	gocv.WarpPerspective(src, &out, transform, image.Pt(s.Geometry.CanvasWidth, s.Geometry.CanvasHeight))
	return out
}

func toPoint2f(m entity.MarkerSet) []gocv.Point2f {
	pts := make([]gocv.Point2f, len(m))
	for i, p := range m {
		pts[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}
	return pts
}
