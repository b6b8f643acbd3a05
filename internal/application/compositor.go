package app

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"scroll-stitch/internal/domain/entity"
)

// layout геометрия итогового изображения
type layout struct {
	direction    entity.ScrollDirection
	crossSide    int // поперечная сторона исходного кадра
	leadingReach int
	trailReach   int
}

// compose собирает холст из списков краёв. Trailing раскладывается от первого
// кадра наружу, затем поверх рисуется Leading: ранние кадры ближе к исходному виду.
func compose(l layout, leading, trailing []entity.StitchedFrame) *image.RGBA {
	scrollSize := l.leadingReach + l.trailReach
	canvas := image.NewRGBA(l.rect(0, scrollSize))

	cursor := l.leadingReach
	for _, f := range trailing {
		span := f.NewSpan(l.direction)
		paste(canvas, f.Image, l.rect(cursor-f.Overlay, cursor+span))
		cursor += span
	}

	cursor = l.leadingReach
	for _, f := range leading {
		span := f.NewSpan(l.direction)
		paste(canvas, f.Image, l.rect(cursor-span, cursor+f.Overlay))
		cursor -= span
	}

	return canvas
}

// rect прямоугольник холста [from, to) вдоль прокрутки на всю поперечную сторону
func (l layout) rect(from, to int) image.Rectangle {
	if l.direction == entity.Horizontal {
		return image.Rect(from, 0, to, l.crossSide)
	}
	return image.Rect(0, from, l.crossSide, to)
}

func paste(canvas *image.RGBA, img *image.RGBA, at image.Rectangle) {
	xdraw.Draw(canvas, at, img, img.Bounds().Min, xdraw.Src)
}
