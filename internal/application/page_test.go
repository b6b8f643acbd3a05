package app

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	xdraw "golang.org/x/image/draw"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/infrastructure/ann"
	"scroll-stitch/internal/infrastructure/vision"
)

// syntheticPage страница из случайных цветных прямоугольников: много углов, нет повторов
func syntheticPage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	page := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(page, page.Bounds(), image.NewUniform(color.RGBA{R: 128, G: 128, B: 128, A: 255}), image.Point{}, xdraw.Src)

	for i := 0; i < w*h/1500; i++ {
		x, y := rng.Intn(w), rng.Intn(h)
		rw, rh := 6+rng.Intn(50), 6+rng.Intn(50)
		c := color.RGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255}
		xdraw.Draw(page, image.Rect(x, y, x+rw, y+rh), image.NewUniform(c), image.Point{}, xdraw.Src)
	}
	return page
}

// frameAt вырезает кадр w x h со сдвигом offset вдоль прокрутки
func frameAt(page *image.RGBA, direction entity.ScrollDirection, offset, w, h int) *image.RGBA {
	at := image.Pt(0, offset)
	if direction == entity.Horizontal {
		at = image.Pt(offset, 0)
	}
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(frame, frame.Bounds(), page, at, xdraw.Src)
	return frame
}

// region копия области страницы с началом в (0,0)
func region(page *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(out, out.Bounds(), page, r.Min, xdraw.Src)
	return out
}

// testOptions параметры без уменьшения кадра
func testOptions(direction entity.ScrollDirection) entity.Options {
	opts := entity.DefaultOptions(direction)
	opts.MinSampleSize = 4096
	opts.MaxSampleSize = 4096
	return opts
}

func newTestStitcher(t *testing.T, opts entity.Options) *Stitcher {
	t.Helper()
	s := NewStitcher(vision.NewExtractor(), ann.NewBuilder())
	require.NoError(t, s.Init(opts))
	return s
}

// newExactStitcher использует только точный перебор
func newExactStitcher(t *testing.T, opts entity.Options) *Stitcher {
	t.Helper()
	builder := ann.NewBuilder(func(b *ann.Builder) { b.FlatThreshold = math.MaxInt })
	s := NewStitcher(vision.NewExtractor(), builder)
	require.NoError(t, s.Init(opts))
	return s
}
