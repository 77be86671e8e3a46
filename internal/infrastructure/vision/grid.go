//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"omr-bot/internal/domain/omr"
)

var (
	maskOn  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	maskOff = color.RGBA{}
)

// scoreGrid считает оценку заполненности для каждой точки сетки.
func scoreGrid(gray gocv.Mat, grid omr.Grid) [][]float64 {
	scores := make([][]float64, len(grid.Centers))
	for r, row := range grid.Centers {
		scores[r] = make([]float64, len(row))
		for c, center := range row {
			scores[r][c] = ringScore(gray, center, grid.Radii)
		}
	}
	return scores
}

// ringScore сравнивает среднюю яркость внутреннего диска и кольца вокруг него.
// Маски строятся только в окрестности центра, обрезанной границами изображения.
func ringScore(gray gocv.Mat, center image.Point, radii omr.Radii) float64 {
	outer := int(radii.RingOuter)
	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())
	box := image.Rect(center.X-outer, center.Y-outer, center.X+outer+1, center.Y+outer+1).Intersect(bounds)
	if box.Empty() {
		return 0
	}

	roi := gray.Region(box)
	defer roi.Close()
	local := center.Sub(box.Min)

	disk := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), box.Dy(), box.Dx(), gocv.MatTypeCV8U)
	defer disk.Close()
	gocv.Circle(&disk, local, int(radii.Disk), maskOn, -1)

	ring := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), box.Dy(), box.Dx(), gocv.MatTypeCV8U)
	defer ring.Close()
	gocv.Circle(&ring, local, outer, maskOn, -1)
	gocv.Circle(&ring, local, int(radii.RingInner), maskOff, -1)

	diskMean := roi.MeanWithMask(disk).Val1
	ringMean := roi.MeanWithMask(ring).Val1
	return omr.FillScore(diskMean, ringMean)
}
