package vision

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"scroll-stitch/internal/domain/entity"
)

// Thumbnail уменьшает изображение так, чтобы поперечная сторона стала crossSize.
// Изображения меньше crossSize не увеличиваются.
func Thumbnail(img image.Image, direction entity.ScrollDirection, crossSize int) *image.RGBA {
	b := img.Bounds()
	scale := 1.0
	if cross := direction.CrossSide(b.Dx(), b.Dy()); crossSize > 0 && cross > crossSize {
		scale = float64(crossSize) / float64(cross)
	}

	w := max(int(math.Round(float64(b.Dx())*scale)), 1)
	h := max(int(math.Round(float64(b.Dy())*scale)), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
