package ann

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scroll-stitch/internal/domain/entity"
)

func randomDescriptors(num, dim int, seed int64) []entity.Descriptor {
	r := rand.New(rand.NewSource(seed))
	out := make([]entity.Descriptor, num)
	for i := range out {
		out[i] = make(entity.Descriptor, dim)
		for j := range out[i] {
			out[i][j] = r.Float64()
		}
	}
	return out
}

func buildGraph(t *testing.T, vectors []entity.Descriptor, opts Options) *Graph {
	t.Helper()
	g := New(len(vectors[0]), func(o *Options) { *o = opts })
	for i, v := range vectors {
		id, err := g.Insert(v)
		require.NoError(t, err)
		require.Equal(t, i, id)
	}
	return g
}

func TestGraph_FindsInsertedVectors(t *testing.T) {
	vectors := randomDescriptors(600, 16, 42)
	g := buildGraph(t, vectors, ThoroughOptions)
	require.Equal(t, 600, g.Len())

	hits := 0
	for i, v := range vectors {
		idx, dist, ok := g.Nearest(v)
		require.True(t, ok)
		if idx == i {
			require.InDelta(t, 0, dist, 1e-12)
			hits++
		}
	}
	require.GreaterOrEqual(t, hits, 570)
}

func TestGraph_RecallAgainstFlat(t *testing.T) {
	vectors := randomDescriptors(800, 8, 7)
	queries := randomDescriptors(200, 8, 8)

	g := buildGraph(t, vectors, QuickOptions)
	flat := NewFlat(vectors)

	hits := 0
	for _, q := range queries {
		want, _, ok := flat.Nearest(q)
		require.True(t, ok)
		got, _, ok := g.Nearest(q)
		require.True(t, ok)
		if got == want {
			hits++
		}
	}
	require.GreaterOrEqual(t, hits, 170)
}

func TestGraph_SearchOrdersByDistance(t *testing.T) {
	vectors := randomDescriptors(300, 4, 3)
	g := buildGraph(t, vectors, ThoroughOptions)

	found, err := g.Search(vectors[10], 5)
	require.NoError(t, err)
	require.Len(t, found, 5)
	for i := 1; i < len(found); i++ {
		require.LessOrEqual(t, found[i-1].Distance, found[i].Distance)
	}
}

func TestGraph_DimensionMismatch(t *testing.T) {
	g := New(4)
	_, err := g.Insert(entity.Descriptor{1, 2})
	var dimErr *ErrDimensionMismatch
	require.ErrorAs(t, err, &dimErr)
	require.Equal(t, 4, dimErr.Expected)

	_, err = g.Search(entity.Descriptor{1}, 1)
	require.Error(t, err)
}

func TestGraph_EmptyNearest(t *testing.T) {
	g := New(4)
	_, _, ok := g.Nearest(entity.Descriptor{0, 0, 0, 0})
	require.False(t, ok)
}

func TestFlat_Nearest(t *testing.T) {
	f := NewFlat([]entity.Descriptor{{0, 0}, {1, 1}, {0.5, 0.4}})
	idx, dist, ok := f.Nearest(entity.Descriptor{0.9, 1})
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.InDelta(t, 0.1, dist, 1e-9)

	_, _, ok = NewFlat(nil).Nearest(entity.Descriptor{0, 0})
	require.False(t, ok)
}

func TestBuilder_PicksIndexBySize(t *testing.T) {
	b := NewBuilder()

	small, err := b.Build(randomDescriptors(10, 4, 1), entity.EffortQuick)
	require.NoError(t, err)
	require.IsType(t, &Flat{}, small)

	large, err := b.Build(randomDescriptors(200, 4, 1), entity.EffortThorough)
	require.NoError(t, err)
	require.IsType(t, &Graph{}, large)
	require.Equal(t, 200, large.Len())

	forced := NewBuilder(func(b *Builder) { b.FlatThreshold = 0 })
	idx, err := forced.Build(randomDescriptors(3, 4, 1), entity.EffortQuick)
	require.NoError(t, err)
	require.IsType(t, &Graph{}, idx)
}
