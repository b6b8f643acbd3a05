package vision

import (
	"fmt"
	"image"
	"log/slog"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// Extractor реализует port.FeatureExtractor:
// серый буфер, уменьшение, углы FAST, дескрипторы патчей
type Extractor struct {
	corners *CornerDetector
}

// NewExtractor создаёт экстрактор признаков
func NewExtractor() *Extractor {
	return &Extractor{corners: NewCornerDetector()}
}

// Extract извлекает признаки кадра. При Tier == TierUndecided сначала
// пробуется FAST-12, и если углов не больше TierSwitchCorners, кадр
// пересчитывается на FAST-9. Выбранный уровень возвращается в Features.Tier.
func (e *Extractor) Extract(img image.Image, params entity.ExtractParams) (*entity.Features, error) {
	gray := Grayscale(img)
	if params.Width > 0 && params.Height > 0 {
		gray = Downsample(gray, params.Width, params.Height)
	}

	tier := params.Tier
	var keypoints []entity.Keypoint
	if tier == entity.TierUndecided {
		tier = entity.Tier12
		keypoints = e.corners.Detect(gray, params.Threshold, tier)
		if len(keypoints) <= entity.TierSwitchCorners {
			slog.Debug("few strict corners, switching tier",
				"corners", len(keypoints),
				"tier", entity.Tier9,
			)
			tier = entity.Tier9
			keypoints = e.corners.Detect(gray, params.Threshold, tier)
		}
	} else {
		keypoints = e.corners.Detect(gray, params.Threshold, tier)
	}

	if len(keypoints) == 0 {
		return nil, fmt.Errorf("%s on %dx%d: %w", tier, gray.Bounds().Dx(), gray.Bounds().Dy(), entity.ErrNoFeatures)
	}

	return &entity.Features{
		Gray:        gray,
		Keypoints:   keypoints,
		Descriptors: ComputeDescriptors(gray, keypoints, params.PatchSize),
		Tier:        tier,
	}, nil
}

var _ port.FeatureExtractor = (*Extractor)(nil)
