package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// форматы, которые приходят от клиентов
	_ "image/jpeg"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// Codec реализует port.ImageCodec
type Codec struct{}

// NewCodec создаёт кодек изображений
func NewCodec() *Codec {
	return &Codec{}
}

// Decode декодирует PNG или JPEG
func (c *Codec) Decode(data []byte) (image.Image, error) {
	return DecodeImage(data)
}

// EncodePNG кодирует изображение в PNG
func (c *Codec) EncodePNG(img image.Image) ([]byte, error) {
	return EncodePNG(img)
}

// Thumbnail уменьшенная копия для предпросмотра
func (c *Codec) Thumbnail(img image.Image, direction entity.ScrollDirection, crossSize int) image.Image {
	return Thumbnail(img, direction, crossSize)
}

// EncodePNG кодирует изображение в PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage декодирует PNG или JPEG
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

var (
	_ port.ImageCodec      = (*Codec)(nil)
	_ port.DuplicateFilter = (*Deduplicator)(nil)
)
