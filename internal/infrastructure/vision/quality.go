//go:build gocv
// +build gocv

package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// QualityGate пороги предварительной оценки снимка.
// Возвращает только предупреждения, распознавание всё равно выполняется.
type QualityGate struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

// DefaultQualityGate возвращает пороги для снимков с телефона.
func DefaultQualityGate() QualityGate {
	return QualityGate{
		MinImageSide:          400,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}
}

// Check возвращает список замечаний к снимку.
func (q QualityGate) Check(mat gocv.Mat) []string {
	var warnings []string
	if mat.Cols() < q.MinImageSide || mat.Rows() < q.MinImageSide {
		warnings = append(warnings, fmt.Sprintf("image is too small (%dx%d)", mat.Cols(), mat.Rows()))
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < q.MinSharpnessEdgeRatio {
		warnings = append(warnings, fmt.Sprintf("image is blurry (edge_ratio=%.4f)", r))
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > q.MaxOverexposedRatio {
		warnings = append(warnings, fmt.Sprintf("overexposed image (ratio=%.4f)", r))
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > q.MaxUnderexposedRatio {
		warnings = append(warnings, fmt.Sprintf("underexposed image (ratio=%.4f)", r))
	}

	if r, ok := glareRatio(mat); ok && r > q.MaxGlareRatio {
		warnings = append(warnings, fmt.Sprintf("too much glare (ratio=%.4f)", r))
	}
	return warnings
}

// glareRatio доля ярких ненасыщенных пикселей: блики на бумаге.
func glareRatio(mat gocv.Mat) (float64, bool) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return 0, false
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	return ratioOfMask(glare), true
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
