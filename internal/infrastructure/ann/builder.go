package ann

import (
	"fmt"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// DefaultFlatThreshold до этого размера точный перебор дешевле графа
const DefaultFlatThreshold = 64

// Builder строит индекс края: граф HNSW или точный перебор для малых наборов
type Builder struct {
	Quick         Options
	Thorough      Options
	FlatThreshold int
}

// NewBuilder создаёт построитель с параметрами по умолчанию
func NewBuilder(optFns ...func(b *Builder)) *Builder {
	b := &Builder{
		Quick:         QuickOptions,
		Thorough:      ThoroughOptions,
		FlatThreshold: DefaultFlatThreshold,
	}
	for _, fn := range optFns {
		fn(b)
	}
	return b
}

// Build реализует port.IndexBuilder
func (b *Builder) Build(descriptors []entity.Descriptor, effort entity.BuildEffort) (port.MatchIndex, error) {
	if len(descriptors) <= b.FlatThreshold {
		return NewFlat(descriptors), nil
	}

	opts := b.Quick
	if effort == entity.EffortThorough {
		opts = b.Thorough
	}

	g := New(len(descriptors[0]), func(o *Options) { *o = opts })
	for i, d := range descriptors {
		if _, err := g.Insert(d); err != nil {
			return nil, fmt.Errorf("insert descriptor %d: %w", i, err)
		}
	}

	return g, nil
}

var _ port.IndexBuilder = (*Builder)(nil)
