// Package comparator ranks every user of a rating table by how far their
// ordering of the items is from a target user's ordering.
//
// For each comparison row the collision vector is built against the target
// and its inversions are counted; rows are then stable-sorted ascending by
// that count, so fewer inversions means a more similar ranking.
package comparator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	queue "github.com/okian/simrank/internal/adapters/mq/queue"
	worker "github.com/okian/simrank/internal/adapters/mq/worker"
	"github.com/okian/simrank/internal/domain/collision"
	"github.com/okian/simrank/internal/domain/inversion"
	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/logger"
	"github.com/okian/simrank/pkg/metrics"
)

const (
	jobsPerWorker = 64
	ctxCheckEvery = 1024
)

// Compare produces the ranking of every other user in table relative to
// target.
//
// Under model.PolicyReject (the default) any repeated user ID fails with
// model.ErrDuplicateUser. Under model.PolicyLast the last row carrying the
// target ID is the target and no row with that ID is compared.
func Compare(ctx context.Context, table *model.RatingTable, target model.UserID, opts ...Option) (model.RankingResult, error) {
	s := settings{policy: model.PolicyReject}
	for _, opt := range opts {
		opt(&s)
	}

	start := time.Now()
	result, err := compare(ctx, table, target, &s)
	metrics.RecordRankingDuration(float64(time.Since(start).Microseconds()) / 1e3)
	if err != nil {
		metrics.RecordRankingError(ErrorKind(err))
		return model.RankingResult{}, err
	}
	metrics.RecordComparisons(len(result.Entries))

	if s.logger != nil {
		s.logger.Debug(ctx, "ranking computed",
			logger.Uint64("target", uint64(target)),
			logger.Int("users", len(result.Entries)),
			logger.Int("items", table.Items),
			logger.String("elapsed", time.Since(start).String()),
		)
	}
	return result, nil
}

func compare(ctx context.Context, table *model.RatingTable, target model.UserID, s *settings) (model.RankingResult, error) {
	targetIdx, err := locateTarget(table, target, s.policy)
	if err != nil {
		return model.RankingResult{}, err
	}

	targetRow := table.Rows[targetIdx]
	if len(targetRow.Ratings) != table.Items {
		return model.RankingResult{}, fmt.Errorf("%w: target %d has %d ratings, table declares %d",
			model.ErrIntegrity, target, len(targetRow.Ratings), table.Items)
	}
	index, err := collision.NewIndex(targetRow)
	if err != nil {
		return model.RankingResult{}, err
	}

	var entries []model.Ranking
	if s.workers > 1 {
		entries, err = compareParallel(ctx, table, index, s)
	} else {
		entries, err = compareSequential(ctx, table, index)
	}
	if err != nil {
		return model.RankingResult{}, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Inversions < entries[j].Inversions
	})

	return model.RankingResult{Target: target, Entries: entries}, nil
}

// locateTarget returns the row index of target under policy.
func locateTarget(table *model.RatingTable, target model.UserID, policy model.DuplicatePolicy) (int, error) {
	// Decoded tables are already free of duplicates; tables built in memory
	// are not.
	if policy == model.PolicyReject {
		if dups := table.Duplicates(); len(dups) > 0 {
			return 0, fmt.Errorf("%w: %v", model.ErrDuplicateUser, dups)
		}
	}
	matches := table.Lookup(target)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %d", model.ErrUserNotFound, target)
	}
	return matches[len(matches)-1], nil
}

// rowComparer builds a collision vector and counts its inversions, reusing
// its buffers between rows.
type rowComparer struct {
	index   *collision.Index
	counter *inversion.Counter
	buf     model.CollisionVector
}

func newRowComparer(index *collision.Index) *rowComparer {
	return &rowComparer{
		index:   index,
		counter: inversion.NewCounter(),
		buf:     make(model.CollisionVector, 0, index.Len()),
	}
}

// Compare implements worker.Comparer.
func (c *rowComparer) Compare(row model.Row) (model.InversionCount, error) {
	vec, err := c.index.BuildInto(c.buf, row)
	if err != nil {
		return 0, err
	}
	c.buf = vec
	return c.counter.Count(vec)
}

func compareSequential(ctx context.Context, table *model.RatingTable, index *collision.Index) ([]model.Ranking, error) {
	c := newRowComparer(index)
	entries := make([]model.Ranking, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if row.ID == index.Target() {
			continue
		}
		n, err := c.Compare(row)
		if err != nil {
			return nil, fmt.Errorf("compare user %d: %w", row.ID, err)
		}
		entries = append(entries, model.Ranking{UserID: row.ID, Inversions: n})
	}
	return entries, nil
}

func compareParallel(ctx context.Context, table *model.RatingTable, index *collision.Index, s *settings) ([]model.Ranking, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	capacity := s.queueCapacity
	if capacity == 0 {
		capacity = s.workers * jobsPerWorker
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))

	var poolOpts []worker.Option
	if s.logger != nil {
		poolOpts = append(poolOpts, worker.WithLogger(s.logger))
	}
	pool := worker.NewPool(s.workers, q, func() worker.Comparer { return newRowComparer(index) }, poolOpts...)
	out := pool.Start(ctx)

	go func() {
		// Shutdown closes the queue; it must outlive a cancelled ctx so the
		// workers are always waited for.
		defer func() { _ = pool.Shutdown(context.WithoutCancel(ctx)) }()
		for i, row := range table.Rows {
			if row.ID == index.Target() {
				continue
			}
			if !q.Enqueue(ctx, model.Job{Index: i, Row: row}) {
				return
			}
		}
	}()

	slots := make([]model.Outcome, len(table.Rows))
	filled := make([]bool, len(table.Rows))
	for o := range out {
		slots[o.Index] = o
		filled[o.Index] = true
		if o.Err != nil {
			cancel()
		}
	}

	entries := make([]model.Ranking, 0, len(table.Rows))
	for i := range slots {
		if !filled[i] {
			continue
		}
		if slots[i].Err != nil {
			return nil, slots[i].Err
		}
		entries = append(entries, model.Ranking{UserID: slots[i].UserID, Inversions: slots[i].Inversions})
	}
	if err := ctx.Err(); err != nil {
		// Cancellation without a comparison error came from the caller.
		return nil, err
	}
	return entries, nil
}

// ErrorKind maps an error onto a short label for metrics and API codes.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, model.ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, model.ErrIntegrity):
		return "integrity"
	case errors.Is(err, model.ErrOverflow):
		return "overflow"
	case errors.Is(err, model.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
