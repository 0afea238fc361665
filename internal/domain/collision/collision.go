// Package collision builds collision vectors: a comparison user's ratings
// re-ordered by the rank the target user gave each item.
package collision

import (
	"fmt"

	"github.com/okian/simrank/internal/domain/model"
)

// Index maps each rank of the target user to the item holding it. It is
// built once per target and shared read-only between comparisons.
type Index struct {
	target model.UserID
	items  []int // items[k] is the item the target ranked k+1
}

// NewIndex inverts the target's row. The row must be a permutation of
// 1..=len(row.Ratings); anything else leaves "which item did the target rank
// k" undefined and is reported as model.ErrIntegrity.
func NewIndex(target model.Row) (*Index, error) {
	if err := model.CheckPermutation(target.Ratings); err != nil {
		return nil, fmt.Errorf("target %d: %w", target.ID, err)
	}
	items := make([]int, len(target.Ratings))
	for item, rank := range target.Ratings {
		items[rank-1] = item
	}
	return &Index{target: target.ID, items: items}, nil
}

// Target returns the user the index was built for.
func (x *Index) Target() model.UserID { return x.target }

// Len returns the item count.
func (x *Index) Len() int { return len(x.items) }

// Build returns a fresh collision vector for row.
func (x *Index) Build(row model.Row) (model.CollisionVector, error) {
	return x.BuildInto(make(model.CollisionVector, 0, len(x.items)), row)
}

// BuildInto writes the collision vector for row into dst, growing it when
// needed, and returns the filled slice.
func (x *Index) BuildInto(dst model.CollisionVector, row model.Row) (model.CollisionVector, error) {
	if len(row.Ratings) != len(x.items) {
		return nil, fmt.Errorf("%w: user %d has %d ratings, target %d has %d",
			model.ErrIntegrity, row.ID, len(row.Ratings), x.target, len(x.items))
	}
	dst = dst[:0]
	for _, item := range x.items {
		dst = append(dst, row.Ratings[item])
	}
	return dst, nil
}

// Build produces the collision vector of other against target. Both users
// must appear exactly once in table.
func Build(table *model.RatingTable, target, other model.UserID) (model.CollisionVector, error) {
	targetRow, err := uniqueRow(table, target)
	if err != nil {
		return nil, err
	}
	otherRow, err := uniqueRow(table, other)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndex(targetRow)
	if err != nil {
		return nil, err
	}
	return idx.Build(otherRow)
}

func uniqueRow(table *model.RatingTable, id model.UserID) (model.Row, error) {
	matches := table.Lookup(id)
	switch len(matches) {
	case 0:
		return model.Row{}, fmt.Errorf("%w: %d", model.ErrUserNotFound, id)
	case 1:
		return table.Rows[matches[0]], nil
	default:
		return model.Row{}, fmt.Errorf("%w: %d appears %d times", model.ErrDuplicateUser, id, len(matches))
	}
}
