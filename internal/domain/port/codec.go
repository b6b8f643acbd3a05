package port

import (
	"image"

	"scroll-stitch/internal/domain/entity"
)

// ImageCodec разбор входящих кадров и подготовка изображений к отправке
type ImageCodec interface {
	// Decode декодирует PNG или JPEG
	Decode(data []byte) (image.Image, error)

	// EncodePNG кодирует изображение в PNG
	EncodePNG(img image.Image) ([]byte, error)

	// Thumbnail уменьшает изображение до crossSize по поперечной оси
	Thumbnail(img image.Image, direction entity.ScrollDirection, crossSize int) image.Image
}

// DuplicateFilter отсекает кадры, не отличающиеся от предыдущего
type DuplicateFilter interface {
	Duplicate(img image.Image) bool
	Reset()
}
