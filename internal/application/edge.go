package app

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// edgeIndex индекс дескрипторов одного кадра края.
// Массивы не меняются после построения, индекс только заменяется целиком.
type edgeIndex struct {
	base        int // начало проиндексированного кадра в координатах сессии
	reach       int // внешняя граница проиндексированного кадра по модулю
	match       port.MatchIndex
	keypoints   []entity.Keypoint
	descriptors []entity.Descriptor
}

// edge растущий край склейки. Trailing растёт в плюс (sign = 1),
// Leading в минус (sign = -1), нулём служит начало первого кадра.
type edge struct {
	side   entity.Edge
	sign   int
	frames []entity.StitchedFrame
	reach  int // покрытие края по модулю, у Trailing включает первый кадр
	index  *edgeIndex
}

func newEdge(side entity.Edge) *edge {
	sign := 1
	if side == entity.Leading {
		sign = -1
	}
	return &edge{side: side, sign: sign}
}

func (e *edge) reset() {
	e.frames = nil
	e.reach = 0
	e.index = nil
}

// outer внешняя граница кадра, начинающегося в start, по модулю
func (e *edge) outer(start, scrollSide int) int {
	if e.sign > 0 {
		return start + scrollSide
	}
	return -start
}

// position внешняя граница кадра со знаком
func (e *edge) position(start, scrollSide int) int {
	return e.sign * e.outer(start, scrollSide)
}

// minDiff граница допустимого смещения (новая точка минус точка индекса):
// кадр должен выйти за текущее покрытие хотя бы на пиксель
func (e *edge) minDiff(scrollSide int) int {
	if e.sign > 0 {
		return e.index.base - e.reach + scrollSide - 1
	}
	return e.index.base + e.reach + 1
}

// plausible проверяет смещение относительно minDiff
func (e *edge) plausible(diff, minDiff int) bool {
	return e.sign*(minDiff-diff) >= 0
}

// crop вырезает span внешних пикселей кадра
func (e *edge) crop(img image.Image, direction entity.ScrollDirection, span int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := b.Min

	if direction == entity.Horizontal {
		if e.sign > 0 {
			src.X += w - span
		}
		w = span
	} else {
		if e.sign > 0 {
			src.Y += h - span
		}
		h = span
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, src, xdraw.Src)
	return dst
}

func along(direction entity.ScrollDirection, kp entity.Keypoint) int {
	if direction == entity.Horizontal {
		return kp.X
	}
	return kp.Y
}

func across(direction entity.ScrollDirection, kp entity.Keypoint) int {
	if direction == entity.Horizontal {
		return kp.Y
	}
	return kp.X
}
