//go:build gocv
// +build gocv

package vision

import (
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/omr"
)

// LocateMarkers ищет четыре квадратные угловые метки на сером изображении.
// Размытие подавляет шум сенсора, Оцу отделяет чернила от бумаги.
func (s *SheetScanner) LocateMarkers(gray gocv.Mat) (entity.MarkerSet, error) {
	candidates := s.markerCandidates(gray)
	markers, err := omr.OrderCorners(candidates)
	if err != nil {
		log.Debug().Int("candidates", len(candidates)).Msg("corner markers not found")
		return entity.MarkerSet{}, err
	}

	log.Debug().
		Int("candidates", len(candidates)).
		Interface("markers", markers).
		Msg("corner markers located")
	return markers, nil
}

func (s *SheetScanner) markerCandidates(gray gocv.Mat) []entity.Point {
	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(s.BlurKernel, s.BlurKernel), 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(blur, &thresh, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	imageArea := float64(gray.Cols() * gray.Rows())
	points := make([]entity.Point, 0, 4)
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		if !s.Filter.AcceptArea(gocv.ContourArea(c), imageArea) {
			continue
		}
		if !s.Filter.AcceptBox(gocv.BoundingRect(c)) {
			continue
		}

		approx := gocv.ApproxPolyDP(c, s.Filter.PolyEpsilon*gocv.ArcLength(c, true), true)
		vertices := approx.Size()
		approx.Close()
		if vertices != 4 {
			continue
		}

		if p, ok := omr.Centroid(c.ToPoints()); ok {
			points = append(points, p)
		}
	}
	return points
}
