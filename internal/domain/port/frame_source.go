package port

import (
	"context"
	"image"

	"scroll-stitch/internal/domain/entity"
)

// FrameSource поставщик кадров в порядке съёмки
type FrameSource interface {
	// Next возвращает следующий кадр и подсказку края; io.EOF в конце
	Next(ctx context.Context) (image.Image, entity.Edge, error)
}
