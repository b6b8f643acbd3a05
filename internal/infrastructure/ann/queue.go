package ann

// Neighbor кандидат поиска: позиция вектора и расстояние до запроса
type Neighbor struct {
	ID       int
	Distance float64
}

// priorityQueue куча кандидатов для container/heap.
// max=false: ближайший сверху, max=true: самый дальний сверху.
type priorityQueue struct {
	items []Neighbor
	max   bool
}

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	if pq.max {
		return pq.items[i].Distance > pq.items[j].Distance
	}
	return pq.items[i].Distance < pq.items[j].Distance
}

func (pq *priorityQueue) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *priorityQueue) Push(x any) { pq.items = append(pq.items, x.(Neighbor)) }

func (pq *priorityQueue) Pop() any {
	n := len(pq.items)
	item := pq.items[n-1]
	pq.items = pq.items[:n-1]
	return item
}

// Top вершина кучи без извлечения
func (pq *priorityQueue) Top() Neighbor { return pq.items[0] }
