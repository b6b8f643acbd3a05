package port

import "scroll-stitch/internal/domain/entity"

// MatchIndex приближённый поиск ближайшего соседа по дескрипторам.
// После построения не изменяется.
type MatchIndex interface {
	// Nearest возвращает позицию ближайшего дескриптора и расстояние до него
	Nearest(q entity.Descriptor) (idx int, dist float64, ok bool)

	// Len количество дескрипторов в индексе
	Len() int
}

// IndexBuilder строит индекс по набору дескрипторов
type IndexBuilder interface {
	Build(descriptors []entity.Descriptor, effort entity.BuildEffort) (MatchIndex, error)
}
