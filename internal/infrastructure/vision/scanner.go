//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/omr"
	"omr-bot/internal/domain/port"
)

// SheetScanner распознаёт бланк ответов на OpenCV.
// Не хранит состояния между вызовами, результат Scan зависит только от изображения, калибровки и ключа.
type SheetScanner struct {
	Geometry    entity.GeometryConfig
	Filter      omr.MarkerFilter
	BlurKernel  int
	JPEGQuality int
	Quality     QualityGate
}

// NewSheetScanner создаёт сканер с заданной калибровкой.
func NewSheetScanner(geometry entity.GeometryConfig) *SheetScanner {
	return &SheetScanner{
		Geometry:    geometry,
		Filter:      omr.DefaultMarkerFilter(),
		BlurKernel:  5,
		JPEGQuality: 90,
		Quality:     DefaultQualityGate(),
	}
}

// Scan выполняет полный проход распознавания.
func (s *SheetScanner) Scan(ctx context.Context, imageData []byte, req entity.ScanRequest) (*entity.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	warnings := s.Quality.Check(src)
	for _, w := range warnings {
		log.Debug().Str("warning", w).Msg("image quality")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	markers, err := s.LocateMarkers(gray)
	if err != nil {
		return nil, err
	}

	warped := s.Normalize(src, markers)
	defer warped.Close()

	warpedGray := gocv.NewMat()
	defer warpedGray.Close()
	gocv.CvtColor(warped, &warpedGray, gocv.ColorBGRToGray)

	equalized := s.equalize(warpedGray)
	defer equalized.Close()

	sheet := s.detect(equalized)
	items := req.Items()
	result := &entity.ScanResult{
		Answers:     sheet.answers,
		StudentID:   sheet.studentID,
		Score:       omr.Grade(sheet.answers, req.Key, items),
		Graded:      req.Key != nil,
		ActiveItems: items,
		Markers:     markers,
		Warnings:    warnings,
	}

	annotated := s.Annotate(warped, sheet, req.Key, items)
	defer annotated.Close()

	result.Annotated, err = s.encodeJPEG(annotated)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("student_id", result.StudentID).
		Str("answers", result.Answers.String()).
		Int("score", result.Score).
		Msg("sheet scanned")
	return result, nil
}

// detection решения по всем регионам одного бланка.
type detection struct {
	answers   entity.AnswerVector
	rows      []answerRow
	idGrid    omr.Grid
	idPicks   []int
	studentID string
}

// answerRow центры одного вопроса и радиус разметки его региона.
type answerRow struct {
	centers []image.Point
	radius  int
}

func (s *SheetScanner) detect(gray gocv.Mat) detection {
	w, h := gray.Cols(), gray.Rows()
	var d detection

	for i, region := range s.Geometry.AnswerRegions {
		grid := omr.Layout(w, h, region, entity.RowsPerRegion, entity.ChoicesPerRow, s.Geometry)
		if grid.Empty() {
			// Вопросы региона остаются без ответа, нумерация следующих не сдвигается
			log.Warn().Int("region", i).Err(entity.ErrDegenerateRegion).Msg("answer region skipped")
			for r := 0; r < entity.RowsPerRegion; r++ {
				d.answers = append(d.answers, entity.NoAnswer)
				d.rows = append(d.rows, answerRow{})
			}
			continue
		}
		scores := scoreGrid(gray, grid)
		d.answers = append(d.answers, omr.DecideRows(scores, s.Geometry)...)
		for _, row := range grid.Centers {
			d.rows = append(d.rows, answerRow{centers: row, radius: grid.DrawRadius})
		}
	}

	d.idGrid = omr.Layout(w, h, s.Geometry.IDRegion, entity.IDDigitRows, entity.IDDigitColumns, s.Geometry)
	if d.idGrid.Empty() {
		log.Warn().Err(entity.ErrDegenerateRegion).Msg("id region skipped")
		return d
	}
	d.studentID, d.idPicks = omr.DecodeStudentID(scoreGrid(gray, d.idGrid))
	return d
}

func (s *SheetScanner) equalize(gray gocv.Mat) gocv.Mat {
	tile := s.Geometry.CLAHE.TileGrid
	clahe := gocv.NewCLAHEWithParams(s.Geometry.CLAHE.ClipLimit, image.Pt(tile, tile))
	defer clahe.Close()

	out := gocv.NewMat()
	clahe.Apply(gray, &out)
	return out
}

func (s *SheetScanner) encodeJPEG(mat gocv.Mat) ([]byte, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Проверка реализации интерфейса
var _ port.SheetScanner = (*SheetScanner)(nil)
