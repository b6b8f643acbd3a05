package ann

import (
	"math"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// Flat точный индекс полным перебором
type Flat struct {
	vectors []entity.Descriptor
}

// NewFlat создаёт индекс над набором дескрипторов (без копирования)
func NewFlat(vectors []entity.Descriptor) *Flat {
	return &Flat{vectors: vectors}
}

// Len количество векторов
func (f *Flat) Len() int { return len(f.vectors) }

// Nearest возвращает точного ближайшего соседа
func (f *Flat) Nearest(q entity.Descriptor) (int, float64, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, v := range f.vectors {
		if len(v) != len(q) {
			continue
		}
		if d := distance(q, v); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestDist, true
}

var _ port.MatchIndex = (*Flat)(nil)
