//go:build gocv
// +build gocv

package vision

import (
	"bytes"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// decodeToMat превращает байты изображения в BGR gocv.Mat.
// Снимки с телефона поворачиваются по EXIF, иначе метки окажутся не в тех углах.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err == nil {
		mat, err := gocv.ImageToMatRGB(img)
		if err == nil && !mat.Empty() {
			return mat, nil
		}
		mat.Close()
	}

	// Форматы, которые знает только OpenCV
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, ErrDecodeImage
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, ErrDecodeImage
	}
	return mat, nil
}
