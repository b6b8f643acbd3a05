package vision

import (
	"image"
	"log/slog"
	"sync"

	"github.com/corona10/goimagehash"
)

// DefaultDuplicateDistance максимум бит различия pHash для повторного кадра
const DefaultDuplicateDistance = 0

// Deduplicator отсекает кадры, совпадающие с последним увиденным по pHash
type Deduplicator struct {
	mu          sync.Mutex
	last        *goimagehash.ImageHash
	maxDistance int
}

// NewDeduplicator создаёт фильтр повторов
func NewDeduplicator(maxDistance int) *Deduplicator {
	return &Deduplicator{maxDistance: maxDistance}
}

// Duplicate сообщает, совпадает ли кадр с предыдущим. Новый кадр запоминается.
func (d *Deduplicator) Duplicate(img image.Image) bool {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		slog.Debug("perception hash failed", "error", err)
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last != nil {
		dist, err := d.last.Distance(hash)
		if err == nil && dist <= d.maxDistance {
			return true
		}
	}
	d.last = hash
	return false
}

// Reset забывает последний кадр
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	d.last = nil
	d.mu.Unlock()
}
