package vision

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"scroll-stitch/internal/domain/entity"
)

// ComputeDescriptors считает дескрипторы всех точек параллельно.
// Результат i соответствует keypoints[i].
func ComputeDescriptors(gray *image.Gray, keypoints []entity.Keypoint, patchSize int) []entity.Descriptor {
	out := make([]entity.Descriptor, len(keypoints))
	if len(keypoints) == 0 {
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := max((len(keypoints)+workers-1)/workers, 1)

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(keypoints); start += chunk {
		end := min(start+chunk, len(keypoints))
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = computeDescriptor(gray, keypoints[i], patchSize)
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// computeDescriptor берёт каждую вторую строку и каждый второй столбец патча:
// первая половина вектора средние по строкам, вторая по столбцам.
// Пиксели за границей кадра не учитываются, пустое среднее равно 0.
func computeDescriptor(gray *image.Gray, kp entity.Keypoint, patchSize int) entity.Descriptor {
	half := patchSize / 2
	b := gray.Bounds()
	desc := make(entity.Descriptor, 2*half)

	for r := 0; r < half; r++ {
		y := kp.Y - half + 2*r
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		var sum, n int
		for c := 0; c < half; c++ {
			x := kp.X - half + 2*c
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			sum += int(gray.Pix[gray.PixOffset(x, y)])
			n++
		}
		if n > 0 {
			desc[r] = float64(sum) / float64(n) / 255
		}
	}

	for c := 0; c < half; c++ {
		x := kp.X - half + 2*c
		if x < b.Min.X || x >= b.Max.X {
			continue
		}
		var sum, n int
		for r := 0; r < half; r++ {
			y := kp.Y - half + 2*r
			if y < b.Min.Y || y >= b.Max.Y {
				continue
			}
			sum += int(gray.Pix[gray.PixOffset(x, y)])
			n++
		}
		if n > 0 {
			desc[half+c] = float64(sum) / float64(n) / 255
		}
	}

	return desc
}
