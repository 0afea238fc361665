package repository

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/metrics"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	tables      map[string]*model.RatingTable
	maxDatasets int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{tables: make(map[string]*model.RatingTable)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidName reports whether name may be used as a dataset name.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

func (s *MemoryStore) Put(_ context.Context, name string, table *model.RatingTable) (Dataset, error) {
	if !ValidName(name) {
		return Dataset{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if table == nil {
		return Dataset{}, fmt.Errorf("%w: nil table", model.ErrMalformedInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[name]; !exists && s.maxDatasets > 0 && len(s.tables) >= s.maxDatasets {
		return Dataset{}, fmt.Errorf("%w: limit %d", ErrFull, s.maxDatasets)
	}
	s.tables[name] = table
	metrics.UpdateDatasetCount(len(s.tables))

	return describe(name, table), nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (*model.RatingTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return table, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.tables, name)
	metrics.UpdateDatasetCount(len(s.tables))
	return nil
}

func (s *MemoryStore) List(_ context.Context) []Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := lo.Keys(s.tables)
	slices.Sort(names)
	return lo.Map(names, func(name string, _ int) Dataset {
		return describe(name, s.tables[name])
	})
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

func describe(name string, table *model.RatingTable) Dataset {
	return Dataset{Name: name, Users: table.Users(), Items: table.Items}
}
