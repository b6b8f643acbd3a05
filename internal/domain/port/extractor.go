package port

import (
	"image"

	"scroll-stitch/internal/domain/entity"
)

// FeatureExtractor интерфейс извлечения признаков кадра
type FeatureExtractor interface {
	// Extract переводит кадр в серый буфер заданного размера, находит углы и считает дескрипторы.
	// Возвращает entity.ErrNoFeatures, если углов нет.
	Extract(img image.Image, params entity.ExtractParams) (*entity.Features, error)
}
