//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"omr-bot/internal/domain/entity"
)

var (
	guideColor   = color.RGBA{R: 255, G: 255, A: 255}
	correctColor = color.RGBA{G: 255, A: 255}
	wrongColor   = color.RGBA{R: 255, A: 255}
	idColor      = color.RGBA{B: 255, A: 255}
)

const (
	thin = 1
	bold = 3
)

// Annotate рисует разметку на копии нормализованного бланка.
func (s *SheetScanner) Annotate(warped gocv.Mat, d detection, key entity.AnswerKey, items int) gocv.Mat {
	out := warped.Clone()

	// Направляющие для всех вопросов
	for _, row := range d.rows {
		for _, p := range row.centers {
			gocv.Circle(&out, p, row.radius, guideColor, thin)
		}
	}

	for i, row := range d.rows {
		if i >= items {
			break
		}
		s.annotateRow(&out, row, answerAt(d.answers, i), key, i)
	}

	// Номер студента: тонкие направляющие и жирная выбранная цифра
	if len(d.idPicks) > 0 {
		for r, row := range d.idGrid.Centers {
			for c, p := range row {
				thickness := thin
				if d.idPicks[c] == r {
					thickness = bold
				}
				gocv.Circle(&out, p, d.idGrid.DrawRadius, idColor, thickness)
			}
		}
	}
	return out
}

func (s *SheetScanner) annotateRow(out *gocv.Mat, row answerRow, sel entity.Choice, key entity.AnswerKey, i int) {
	k, hasKey := key.Lookup(i)
	keyValid := hasKey && int(k) >= 0 && int(k) < len(row.centers)

	if sel == entity.NoAnswer {
		if s.Geometry.MarkBlanks && len(row.centers) > 0 {
			c := centroid(row.centers)
			gocv.PutTextWithParams(out, "NO ANSWER", image.Pt(c.X-44, c.Y+5),
				gocv.FontHersheySimplex, 0.45, wrongColor, 2, gocv.LineAA, false)
		}
		if keyValid {
			gocv.Circle(out, row.centers[k], row.radius, correctColor, bold)
		}
		return
	}

	if int(sel) >= len(row.centers) {
		return
	}
	if !hasKey || sel == k {
		gocv.Circle(out, row.centers[sel], row.radius, correctColor, bold)
		return
	}

	gocv.Circle(out, row.centers[sel], row.radius, wrongColor, bold)
	if keyValid {
		gocv.Circle(out, row.centers[k], row.radius, correctColor, bold)
	}
}

func answerAt(answers entity.AnswerVector, i int) entity.Choice {
	if i < len(answers) {
		return answers[i]
	}
	return entity.NoAnswer
}

func centroid(points []image.Point) image.Point {
	var sx, sy int
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	return image.Pt(sx/len(points), sy/len(points))
}
