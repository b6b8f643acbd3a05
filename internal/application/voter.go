package app

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"scroll-stitch/internal/domain/entity"
)

const (
	// maxDescriptorDistance пара с большим расстоянием не голосует
	maxDescriptorDistance = 0.1
	// unchangedRatio доля точек по неверную сторону границы, при которой вид считается неподвижным
	unchangedRatio = 0.72
	// minSupportDivisor модальное смещение должно набрать не меньше 1/10 точек кадра
	minSupportDivisor = 10
	// dominanceFactor модальное смещение должно вдвое превосходить второе
	dominanceFactor = 2
)

type voteKind uint8

const (
	voteSkipped voteKind = iota
	voteWrongSide
	voteAccepted
)

type vote struct {
	kind   voteKind
	offset int
	origin int
}

// offsetMatch итог голосования
type offsetMatch struct {
	found     bool
	unchanged bool
	offset    int // новая точка минус точка индекса вдоль прокрутки
	origin    int // позиция точки в индексе
	fresh     int // позиция точки в новом кадре
	support   int
	runnerUp  int
}

// findOffset ищет единственное согласованное смещение кадра относительно индекса края.
// Запросы к индексу выполняются параллельно, каждый пишет в свой слот.
func findOffset(direction entity.ScrollDirection, e *edge, features *entity.Features, scrollSide int) offsetMatch {
	idx := e.index
	minDiff := e.minDiff(scrollSide)
	n := len(features.Keypoints)
	votes := make([]vote, n)

	workers := runtime.GOMAXPROCS(0)
	chunk := max((n+workers-1)/workers, 1)

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				desc := features.Descriptors[i]
				j, _, ok := idx.match.Nearest(desc)
				if !ok {
					continue
				}

				origin, fresh := idx.keypoints[j], features.Keypoints[i]
				// прокрутка строго вдоль оси
				if across(direction, fresh) != across(direction, origin) {
					continue
				}

				diff := along(direction, fresh) - along(direction, origin)
				if !e.plausible(diff, minDiff) {
					votes[i] = vote{kind: voteWrongSide}
					continue
				}

				if floats.Distance(idx.descriptors[j], desc, 2) < maxDescriptorDistance {
					votes[i] = vote{kind: voteAccepted, offset: diff, origin: j}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return tally(votes)
}

// tally подсчитывает голоса после того, как все запросы завершены
func tally(votes []vote) offsetMatch {
	n := len(votes)
	wrong := 0
	counts := make(map[int]int)
	for _, v := range votes {
		switch v.kind {
		case voteWrongSide:
			wrong++
		case voteAccepted:
			counts[v.offset]++
		}
	}

	if wrong > int(float64(n)*unchangedRatio) {
		return offsetMatch{unchanged: true}
	}
	if len(counts) == 0 {
		return offsetMatch{}
	}

	best, bestCount, second := 0, 0, 0
	for offset, c := range counts {
		switch {
		case c > bestCount || (c == bestCount && offset < best):
			if c > bestCount {
				second = bestCount
			} else {
				second = c
			}
			best, bestCount = offset, c
		case c > second:
			second = c
		}
	}

	res := offsetMatch{offset: best, support: bestCount, runnerUp: second}
	if bestCount < n/minSupportDivisor || bestCount < second*dominanceFactor {
		return res
	}

	for i, v := range votes {
		if v.kind == voteAccepted && v.offset == best {
			res.found = true
			res.origin = v.origin
			res.fresh = i
			break
		}
	}
	return res
}
