package comparator

import (
	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/logger"
)

// Option applies a configuration option to a comparison run.
type Option func(*settings)

type settings struct {
	workers       int
	queueCapacity int
	policy        model.DuplicatePolicy
	logger        logger.Logger
}

// WithWorkers sets how many goroutines compare rows. Values below 2 keep the
// loop on the calling goroutine.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}

// WithQueueCapacity bounds the number of pending jobs in parallel mode.
func WithQueueCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// WithPolicy selects how repeated user IDs are handled.
func WithPolicy(p model.DuplicatePolicy) Option {
	return func(s *settings) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
