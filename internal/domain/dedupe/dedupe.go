// Package dedupe tracks user IDs while a rating table is decoded so repeated
// rows can be reported or tolerated according to the duplicate policy.
package dedupe

import (
	"sync"

	"github.com/okian/simrank/internal/domain/model"
)

// Deduper records seen user IDs.
type Deduper interface {
	// SeenAndRecord checks whether id was seen and records it.
	// Returns true if id had already been recorded.
	SeenAndRecord(id model.UserID) bool

	// Duplicates returns every id recorded more than once, in order of its
	// second occurrence.
	Duplicates() []model.UserID
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[model.UserID]int
	dups []model.UserID
	hint int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[model.UserID]int, d.hint)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(id model.UserID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[id]++
	n := d.seen[id]
	if n == 2 {
		d.dups = append(d.dups, id)
	}
	return n > 1
}

func (d *inMemoryDeduper) Duplicates() []model.UserID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.UserID, len(d.dups))
	copy(out, d.dups)
	return out
}
