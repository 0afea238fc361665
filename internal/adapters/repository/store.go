// Package repository keeps decoded rating tables available by name.
package repository

import (
	"context"

	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/internal/domain/types"
)

// Dataset describes a stored rating table.
type Dataset = types.Dataset

// Store provides access to registered rating tables. Stored tables are never
// mutated; replacing a dataset swaps the whole table.
type Store interface {
	// Put registers table under name, replacing any previous table.
	Put(ctx context.Context, name string, table *model.RatingTable) (Dataset, error)

	// Get returns the table registered under name.
	// Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (*model.RatingTable, error)

	// Delete removes name. Returns ErrNotFound if the name is unknown.
	Delete(ctx context.Context, name string) error

	// List returns every dataset ordered by name.
	List(ctx context.Context) []Dataset

	// Count returns the number of registered datasets.
	Count(ctx context.Context) int
}
