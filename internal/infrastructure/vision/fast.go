package vision

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"scroll-stitch/internal/domain/entity"
)

// circle окружность Брезенхема радиуса 3 (16 точек) по часовой стрелке от верхней
var circle = [16][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// DetectCorners сегментный тест FAST: точка угловая, если на окружности есть
// arc подряд идущих пикселей, все ярче p+threshold или все темнее p-threshold.
// Подавление немаксимумов не выполняется. Точки возвращаются построчно.
func DetectCorners(gray *image.Gray, threshold uint8, arc int) []entity.Keypoint {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 7 || h < 7 {
		return nil
	}

	var offsets [16]int
	for i, c := range circle {
		offsets[i] = c[1]*gray.Stride + c[0]
	}

	// Любая дуга из arc точек задевает не меньше arc/4 точек компаса (0, 4, 8, 12)
	quick := arc / 4

	rows := h - 6
	workers := min(runtime.GOMAXPROCS(0), rows)
	band := (rows + workers - 1) / workers
	found := make([][]entity.Keypoint, workers)

	var g errgroup.Group
	for wi := 0; wi < workers; wi++ {
		y0 := 3 + wi*band
		y1 := min(y0+band, h-3)
		g.Go(func() error {
			var out []entity.Keypoint
			for y := y0; y < y1; y++ {
				row := y * gray.Stride
				for x := 3; x < w-3; x++ {
					i := row + x
					p := int(gray.Pix[i])
					hi, lo := p+int(threshold), p-int(threshold)

					brighter, darker := 0, 0
					for k := 0; k < 16; k += 4 {
						v := int(gray.Pix[i+offsets[k]])
						if v > hi {
							brighter++
						} else if v < lo {
							darker++
						}
					}
					if brighter < quick && darker < quick {
						continue
					}

					if segmentTest(gray.Pix, i, &offsets, hi, lo, arc) {
						out = append(out, entity.Keypoint{X: x, Y: y})
					}
				}
			}
			found[wi] = out
			return nil
		})
	}
	_ = g.Wait()

	var total int
	for _, f := range found {
		total += len(f)
	}
	corners := make([]entity.Keypoint, 0, total)
	for _, f := range found {
		corners = append(corners, f...)
	}
	return corners
}

func segmentTest(pix []uint8, i int, offsets *[16]int, hi, lo, arc int) bool {
	runBright, runDark := 0, 0
	// Проходим окружность с захватом начала, чтобы учесть дугу через точку 0
	for k := 0; k < 16+arc-1; k++ {
		v := int(pix[i+offsets[k&15]])
		switch {
		case v > hi:
			runBright++
			runDark = 0
		case v < lo:
			runDark++
			runBright = 0
		default:
			runBright, runDark = 0, 0
		}
		if runBright >= arc || runDark >= arc {
			return true
		}
	}
	return false
}
