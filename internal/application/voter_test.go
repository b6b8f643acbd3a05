package app

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/infrastructure/ann"
)

const voterSide = 600

type voterFixture struct {
	keypoints   []entity.Keypoint
	descriptors []entity.Descriptor
}

func newVoterFixture(n int) voterFixture {
	rng := rand.New(rand.NewSource(42))
	f := voterFixture{}
	for i := 0; i < n; i++ {
		f.keypoints = append(f.keypoints, entity.Keypoint{X: 10 + 3*i, Y: 300 + rng.Intn(200)})
		d := make(entity.Descriptor, 8)
		for j := range d {
			d[j] = rng.Float64()
		}
		f.descriptors = append(f.descriptors, d)
	}
	return f
}

func (f voterFixture) edge(side entity.Edge, reach int) *edge {
	e := newEdge(side)
	e.reach = reach
	e.index = &edgeIndex{
		match:       ann.NewFlat(f.descriptors),
		keypoints:   f.keypoints,
		descriptors: f.descriptors,
	}
	return e
}

// moved точка i, сдвинутая на (dx, dy), с дескриптором, смещённым на noise по каждой оси
func (f voterFixture) moved(i, dx, dy int, noise float64) (entity.Keypoint, entity.Descriptor) {
	kp := f.keypoints[i]
	d := make(entity.Descriptor, len(f.descriptors[i]))
	for j, v := range f.descriptors[i] {
		d[j] = v + noise
	}
	return entity.Keypoint{X: kp.X + dx, Y: kp.Y + dy}, d
}

type frameBuilder struct {
	features entity.Features
}

func (b *frameBuilder) add(kp entity.Keypoint, d entity.Descriptor) {
	b.features.Keypoints = append(b.features.Keypoints, kp)
	b.features.Descriptors = append(b.features.Descriptors, d)
}

func TestFindOffset_ConsistentShift(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		b.add(f.moved(i, 0, -50, 0))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.True(t, m.found)
	require.False(t, m.unchanged)
	require.Equal(t, -50, m.offset)
	require.Equal(t, 100, m.support)
	require.Equal(t, 50, f.keypoints[m.origin].Y-b.features.Keypoints[m.fresh].Y)
}

func TestFindOffset_NoisyDuplicatesDoNotMoveMode(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		b.add(f.moved(i, 0, -50, 0))
	}
	for i := 0; i < 30; i++ {
		b.add(f.moved(i, 0, -60-7*i, 0.01))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.True(t, m.found)
	require.Equal(t, -50, m.offset)
	require.Equal(t, 100, m.support)
}

func TestFindOffset_AmbiguousShift(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 40; i++ {
		b.add(f.moved(i, 0, -50, 0))
	}
	for i := 40; i < 80; i++ {
		b.add(f.moved(i, 0, -120, 0))
	}
	for i := 80; i < 100; i++ {
		b.add(f.moved(i, 1, -30, 0))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.False(t, m.found)
	require.False(t, m.unchanged)
	require.Equal(t, 40, m.support)
	require.Equal(t, 40, m.runnerUp)
}

func TestFindOffset_CrossAxisDriftNeverVotes(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 60; i++ {
		b.add(f.moved(i, 1, -50, 0))
	}
	for i := 60; i < 100; i++ {
		b.add(f.moved(i, 0, -80, 0))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.True(t, m.found)
	require.Equal(t, -80, m.offset)
	require.Equal(t, 40, m.support)
}

func TestFindOffset_HorizontalIgnoresVerticalDrift(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		dy := 0
		if i%2 == 0 {
			dy = 2
		}
		b.add(f.moved(i, -40, dy, 0))
	}

	m := findOffset(entity.Horizontal, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.True(t, m.found)
	require.Equal(t, -40, m.offset)
	require.Equal(t, 50, m.support)
}

func TestFindOffset_Unchanged(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		b.add(f.moved(i, 0, 0, 0))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.True(t, m.unchanged)
	require.False(t, m.found)
}

func TestFindOffset_UnchangedRatioBoundary(t *testing.T) {
	f := newVoterFixture(100)

	build := func(still int) *entity.Features {
		var b frameBuilder
		for i := 0; i < 100; i++ {
			if i < still {
				b.add(f.moved(i, 0, 0, 0))
			} else {
				b.add(f.moved(i, 0, -50, 0))
			}
		}
		return &b.features
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), build(72), voterSide)
	require.False(t, m.unchanged)
	require.True(t, m.found)

	m = findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), build(73), voterSide)
	require.True(t, m.unchanged)
}

func TestFindOffset_DistantDescriptorsRejected(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		b.add(f.moved(i, 0, -50, 0.05))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.False(t, m.found)
	require.False(t, m.unchanged)
}

func TestFindOffset_InsufficientSupport(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		dx := 1
		if i < 5 {
			dx = 0
		}
		b.add(f.moved(i, dx, -50, 0))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.False(t, m.found)
	require.Equal(t, 5, m.support)
}

func TestFindOffset_LeadingBound(t *testing.T) {
	f := newVoterFixture(100)
	var b frameBuilder
	for i := 0; i < 100; i++ {
		b.add(f.moved(i, 0, 70, 0))
	}

	m := findOffset(entity.Vertical, f.edge(entity.Leading, 0), &b.features, voterSide)
	require.True(t, m.found)
	require.Equal(t, 70, m.offset)

	// на Trailing тот же сдвиг лежит по неверную сторону границы
	m = findOffset(entity.Vertical, f.edge(entity.Trailing, voterSide), &b.features, voterSide)
	require.True(t, m.unchanged)
}
