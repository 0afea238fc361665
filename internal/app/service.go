// Package service ties decoding, ranking and dataset storage together for
// the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/simrank/internal/adapters/repository"
	"github.com/okian/simrank/internal/adapters/textio"
	"github.com/okian/simrank/internal/domain/comparator"
	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/internal/domain/types"
	"github.com/okian/simrank/pkg/logger"
	"github.com/okian/simrank/pkg/metrics"
)

// Service runs rankings over rating tables.
type Service struct {
	store       repository.Store
	workerCount int
	policy      model.DuplicatePolicy
	logger      logger.Logger

	runs   atomic.Uint64
	failed atomic.Uint64
}

// New constructs a Service. Without options it compares on the calling
// goroutine, rejects duplicate IDs and keeps datasets in memory.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 1,
		policy:      model.PolicyReject,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	metrics.UpdateWorkerCount(s.workerCount)
	return s
}

// Decode parses a rating table from r using the service's duplicate policy.
func (s *Service) Decode(_ context.Context, r io.Reader) (*model.RatingTable, error) {
	return textio.Decode(r, textio.WithPolicy(s.policy))
}

// Rank compares every other user of table with target. A positive limit
// truncates the entries.
func (s *Service) Rank(ctx context.Context, table *model.RatingTable, target model.UserID, limit int) (types.Ranking, error) {
	runID, result, err := s.rank(ctx, table, target)
	if err != nil {
		return types.Ranking{}, err
	}
	return types.NewRanking(runID, result, limit), nil
}

// RankReader decodes a table from r and ranks it against target.
func (s *Service) RankReader(ctx context.Context, r io.Reader, target model.UserID, limit int) (types.Ranking, error) {
	table, err := s.Decode(ctx, r)
	if err != nil {
		return types.Ranking{}, err
	}
	return s.Rank(ctx, table, target, limit)
}

// RankFile reads the table at inPath, ranks it against target and writes
// the text result to outPath.
func (s *Service) RankFile(ctx context.Context, inPath string, target model.UserID, outPath string) (types.Ranking, error) {
	table, err := textio.ReadFile(inPath, textio.WithPolicy(s.policy))
	if err != nil {
		return types.Ranking{}, err
	}
	runID, result, err := s.rank(ctx, table, target)
	if err != nil {
		return types.Ranking{}, err
	}
	if err := textio.WriteFile(outPath, result); err != nil {
		return types.Ranking{}, err
	}
	s.logger.Info(ctx, "ranking written",
		logger.String("run_id", runID),
		logger.String("input", inPath),
		logger.String("output", outPath),
	)
	return types.NewRanking(runID, result, 0), nil
}

// PutDataset decodes a table from r and registers it under name.
func (s *Service) PutDataset(ctx context.Context, name string, r io.Reader) (types.Dataset, error) {
	if !repository.ValidName(name) {
		return types.Dataset{}, fmt.Errorf("%w: %q", repository.ErrInvalidName, name)
	}
	table, err := s.Decode(ctx, r)
	if err != nil {
		return types.Dataset{}, err
	}
	ds, err := s.store.Put(ctx, name, table)
	if err != nil {
		return types.Dataset{}, err
	}
	s.logger.Info(ctx, "dataset registered",
		logger.String("name", ds.Name),
		logger.Int("users", ds.Users),
		logger.Int("items", ds.Items),
	)
	return ds, nil
}

// RankDataset ranks the stored table name against target.
func (s *Service) RankDataset(ctx context.Context, name string, target model.UserID, limit int) (types.Ranking, error) {
	table, err := s.store.Get(ctx, name)
	if err != nil {
		return types.Ranking{}, err
	}
	return s.Rank(ctx, table, target, limit)
}

// Datasets lists the registered tables ordered by name.
func (s *Service) Datasets(ctx context.Context) []types.Dataset {
	return s.store.List(ctx)
}

// DeleteDataset removes a registered table.
func (s *Service) DeleteDataset(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	return types.Stats{
		Workers:         s.workerCount,
		DuplicatePolicy: string(s.policy),
		Datasets:        s.store.Count(ctx),
		Runs:            s.runs.Load(),
		FailedRuns:      s.failed.Load(),
	}
}

func (s *Service) rank(ctx context.Context, table *model.RatingTable, target model.UserID) (string, model.RankingResult, error) {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	s.runs.Add(1)

	start := time.Now()
	result, err := comparator.Compare(ctx, table, target,
		comparator.WithWorkers(s.workerCount),
		comparator.WithPolicy(s.policy),
		comparator.WithLogger(log),
	)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordErrorByComponent("service", comparator.ErrorKind(err))
		if !errors.Is(err, context.Canceled) {
			log.Warn(ctx, "ranking failed", logger.Uint64("target", uint64(target)), logger.Error(err))
		}
		return "", model.RankingResult{}, err
	}

	log.Debug(ctx, "ranking finished",
		logger.Uint64("target", uint64(target)),
		logger.Int("entries", len(result.Entries)),
		logger.String("elapsed", time.Since(start).String()),
	)
	return runID, result, nil
}
