// Package ann содержит индексы ближайших соседей для дескрипторов кадров.
package ann

import (
	"container/heap"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/floats"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/domain/port"
)

// ErrDimensionMismatch длина вектора не совпадает с размерностью индекса
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Options параметры графа HNSW
type Options struct {
	// M число связей нового узла; на нулевом слое допускается 2*M
	M int
	// EFConstruction размер списка кандидатов при вставке
	EFConstruction int
	// EFSearch размер списка кандидатов при поиске
	EFSearch int
	// Heuristic эвристический отбор соседей вместо простого k-NN
	Heuristic bool
	// Seed зерно генератора уровней, чтобы построение было воспроизводимым
	Seed int64
}

var (
	// QuickOptions для разовых индексов
	QuickOptions = Options{M: 12, EFConstruction: 24, EFSearch: 24, Heuristic: true, Seed: 1}
	// ThoroughOptions для долгоживущих индексов края
	ThoroughOptions = Options{M: 16, EFConstruction: 48, EFSearch: 48, Heuristic: true, Seed: 1}
)

type node struct {
	vector entity.Descriptor
	level  int
	links  [][]int32
}

// Graph иерархический граф малого мира (HNSW) с евклидовой метрикой.
// Вставка не потокобезопасна; после построения поиск можно вызывать из нескольких горутин.
type Graph struct {
	dim      int
	opts     Options
	mmax     int
	mmax0    int
	ml       float64
	entry    int
	maxLevel int
	nodes    []*node
	rng      *rand.Rand
}

// New создаёт пустой граф заданной размерности
func New(dimension int, optFns ...func(o *Options)) *Graph {
	opts := ThoroughOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.M < 2 {
		// при M == 1 множитель уровня 1/ln(M) не определён
		opts.M = 2
	}
	if opts.EFConstruction < opts.M {
		opts.EFConstruction = opts.M
	}
	if opts.EFSearch < 1 {
		opts.EFSearch = 1
	}

	return &Graph{
		dim:   dimension,
		opts:  opts,
		mmax:  opts.M,
		mmax0: 2 * opts.M,
		ml:    1 / math.Log(float64(opts.M)),
		rng:   rand.New(rand.NewSource(opts.Seed)), // nolint gosec
	}
}

// Len количество вставленных векторов
func (g *Graph) Len() int { return len(g.nodes) }

// Insert добавляет вектор и возвращает его позицию
func (g *Graph) Insert(v entity.Descriptor) (int, error) {
	if len(v) != g.dim {
		return 0, &ErrDimensionMismatch{Expected: g.dim, Actual: len(v)}
	}

	vector := make(entity.Descriptor, len(v))
	copy(vector, v)

	level := int(math.Floor(-math.Log(1-g.rng.Float64()) * g.ml))
	n := &node{vector: vector, level: level, links: make([][]int32, level+1)}

	id := len(g.nodes)
	g.nodes = append(g.nodes, n)

	if id == 0 {
		g.entry = 0
		g.maxLevel = level
		return id, nil
	}

	ep := g.entry
	epDist := distance(vector, g.nodes[ep].vector)

	// Спуск по верхним слоям до уровня нового узла
	for l := g.maxLevel; l > level; l-- {
		ep, epDist = g.greedy(vector, ep, epDist, l)
	}

	for l := min(level, g.maxLevel); l >= 0; l-- {
		candidates := g.searchLayer(vector, ep, epDist, g.opts.EFConstruction, l)
		selected := g.selectNeighbours(candidates, g.opts.M)

		n.links[l] = make([]int32, len(selected))
		for i, nb := range selected {
			n.links[l][i] = int32(nb.ID)
		}

		maxConn := g.mmax
		if l == 0 {
			maxConn = g.mmax0
		}
		for _, nb := range selected {
			g.link(nb.ID, id, l, maxConn)
		}

		ep, epDist = candidates[0].ID, candidates[0].Distance
	}

	if level > g.maxLevel {
		g.maxLevel = level
		g.entry = id
	}

	return id, nil
}

// Search возвращает до k ближайших соседей по возрастанию расстояния
func (g *Graph) Search(q entity.Descriptor, k int) ([]Neighbor, error) {
	if len(q) != g.dim {
		return nil, &ErrDimensionMismatch{Expected: g.dim, Actual: len(q)}
	}
	if len(g.nodes) == 0 || k <= 0 {
		return nil, nil
	}

	ep := g.entry
	epDist := distance(q, g.nodes[ep].vector)
	for l := g.maxLevel; l > 0; l-- {
		ep, epDist = g.greedy(q, ep, epDist, l)
	}

	found := g.searchLayer(q, ep, epDist, max(g.opts.EFSearch, k), 0)
	if len(found) > k {
		found = found[:k]
	}
	return found, nil
}

// Nearest реализует port.MatchIndex
func (g *Graph) Nearest(q entity.Descriptor) (int, float64, bool) {
	found, err := g.Search(q, 1)
	if err != nil || len(found) == 0 {
		return 0, 0, false
	}
	return found[0].ID, found[0].Distance, true
}

// greedy жадный спуск внутри одного слоя
func (g *Graph) greedy(q entity.Descriptor, ep int, epDist float64, level int) (int, float64) {
	for changed := true; changed; {
		changed = false
		n := g.nodes[ep]
		if level >= len(n.links) {
			break
		}
		for _, nb := range n.links[level] {
			if d := distance(q, g.nodes[nb].vector); d < epDist {
				ep, epDist = int(nb), d
				changed = true
			}
		}
	}
	return ep, epDist
}

// searchLayer поиск ef ближайших в слое; результат по возрастанию расстояния
func (g *Graph) searchLayer(q entity.Descriptor, ep int, epDist float64, ef int, level int) []Neighbor {
	visited := bitset.New(uint(len(g.nodes)))
	visited.Set(uint(ep))

	candidates := &priorityQueue{}
	heap.Push(candidates, Neighbor{ID: ep, Distance: epDist})

	results := &priorityQueue{max: true}
	heap.Push(results, Neighbor{ID: ep, Distance: epDist})

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(Neighbor)
		if c.Distance > results.Top().Distance {
			break
		}

		n := g.nodes[c.ID]
		if level >= len(n.links) {
			continue
		}

		for _, nb := range n.links[level] {
			if visited.Test(uint(nb)) {
				continue
			}
			visited.Set(uint(nb))

			d := distance(q, g.nodes[nb].vector)
			if results.Len() < ef || d < results.Top().Distance {
				heap.Push(candidates, Neighbor{ID: int(nb), Distance: d})
				heap.Push(results, Neighbor{ID: int(nb), Distance: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]Neighbor, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(Neighbor)
	}
	return out
}

// selectNeighbours отбирает до m соседей из кандидатов, отсортированных по возрастанию
func (g *Graph) selectNeighbours(candidates []Neighbor, m int) []Neighbor {
	if len(candidates) <= m || !g.opts.Heuristic {
		if len(candidates) > m {
			return candidates[:m]
		}
		return candidates
	}

	selected := make([]Neighbor, 0, m)
	pruned := make([]Neighbor, 0, len(candidates))

	for _, c := range candidates {
		if len(selected) >= m {
			break
		}
		keep := true
		for _, s := range selected {
			if distance(g.nodes[s.ID].vector, g.nodes[c.ID].vector) < c.Distance {
				keep = false
				break
			}
		}
		if keep {
			selected = append(selected, c)
		} else {
			pruned = append(pruned, c)
		}
	}

	// Добираем отброшенных, чтобы узел не остался с малым числом связей
	for i := 0; len(selected) < m && i < len(pruned); i++ {
		selected = append(selected, pruned[i])
	}

	return selected
}

// link добавляет обратную связь и при переполнении переотбирает соседей
func (g *Graph) link(from, to, level, maxConn int) {
	n := g.nodes[from]
	n.links[level] = append(n.links[level], int32(to))

	if len(n.links[level]) <= maxConn {
		return
	}

	candidates := make([]Neighbor, len(n.links[level]))
	for i, id := range n.links[level] {
		candidates[i] = Neighbor{ID: int(id), Distance: distance(n.vector, g.nodes[id].vector)}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Distance < candidates[j].Distance })

	selected := g.selectNeighbours(candidates, maxConn)
	links := make([]int32, len(selected))
	for i, s := range selected {
		links[i] = int32(s.ID)
	}
	n.links[level] = links
}

func distance(a, b entity.Descriptor) float64 {
	return floats.Distance(a, b, 2)
}

var _ port.MatchIndex = (*Graph)(nil)
