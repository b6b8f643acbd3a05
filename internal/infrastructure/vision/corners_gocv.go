//go:build gocv
// +build gocv

package vision

import (
	"image"
	"log/slog"
	"sort"

	"gocv.io/x/gocv"

	"scroll-stitch/internal/domain/entity"
)

// CornerDetector детектор углов на OpenCV.
// У OpenCV нет варианта FAST 12 из 16, поэтому строгий уровень считается на Go.
type CornerDetector struct{}

// NewCornerDetector создаёт детектор углов
func NewCornerDetector() *CornerDetector {
	return &CornerDetector{}
}

// Detect находит углы FAST выбранного уровня
func (d *CornerDetector) Detect(gray *image.Gray, threshold uint8, tier entity.CornerTier) []entity.Keypoint {
	b := gray.Bounds()
	if tier != entity.Tier9 || gray.Stride != b.Dx() {
		return DetectCorners(gray, threshold, tier.ArcLength())
	}

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, gray.Pix)
	if err != nil {
		slog.Debug("gocv mat failed, using native FAST", "error", err)
		return DetectCorners(gray, threshold, tier.ArcLength())
	}
	defer mat.Close()

	fast := gocv.NewFastFeatureDetectorWithParams(int(threshold), false, gocv.FastFeatureDetectorType9To16)
	defer fast.Close()

	kps := fast.Detect(mat)
	corners := make([]entity.Keypoint, 0, len(kps))
	for _, kp := range kps {
		corners = append(corners, entity.Keypoint{X: int(kp.X), Y: int(kp.Y)})
	}

	// Порядок как у нативного детектора: построчно
	sort.Slice(corners, func(i, j int) bool {
		if corners[i].Y != corners[j].Y {
			return corners[i].Y < corners[j].Y
		}
		return corners[i].X < corners[j].X
	})

	return corners
}
