package port

import (
	"context"

	"omr-bot/internal/domain/entity"
)

// SheetScanner интерфейс распознавания бланка ответов
type SheetScanner interface {
	// Scan выполняет один полный проход: метки, выравнивание, оценки, решение,
	// разметка и подсчёт баллов. Каждый вызов работает со своей копией изображения.
	Scan(ctx context.Context, imageData []byte, req entity.ScanRequest) (*entity.ScanResult, error)
}
