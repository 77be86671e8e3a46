//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/domain/omr"
	"omr-bot/internal/domain/port"
)

// SheetScanner заглушка сканера для сборки без OpenCV.
type SheetScanner struct {
	Geometry    entity.GeometryConfig
	Filter      omr.MarkerFilter
	BlurKernel  int
	JPEGQuality int
}

// NewSheetScanner создаёт сканер-заглушку (без OpenCV).
func NewSheetScanner(geometry entity.GeometryConfig) *SheetScanner {
	return &SheetScanner{
		Geometry:    geometry,
		Filter:      omr.DefaultMarkerFilter(),
		BlurKernel:  5,
		JPEGQuality: 90,
	}
}

// Scan возвращает ошибку, если сборка без тега gocv.
func (s *SheetScanner) Scan(ctx context.Context, imageData []byte, req entity.ScanRequest) (*entity.ScanResult, error) {
	_ = ctx
	_ = imageData
	_ = req
	return nil, ErrVisionDisabled
}

var _ port.SheetScanner = (*SheetScanner)(nil)
