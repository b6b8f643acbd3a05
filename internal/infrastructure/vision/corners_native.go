//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"scroll-stitch/internal/domain/entity"
)

// CornerDetector детектор углов на чистом Go (сборка без тега gocv)
type CornerDetector struct{}

// NewCornerDetector создаёт детектор углов
func NewCornerDetector() *CornerDetector {
	return &CornerDetector{}
}

// Detect находит углы FAST выбранного уровня
func (d *CornerDetector) Detect(gray *image.Gray, threshold uint8, tier entity.CornerTier) []entity.Keypoint {
	return DetectCorners(gray, threshold, tier.ArcLength())
}
