package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxDatasets caps how many tables may be registered at once.
// Zero or negative means unbounded.
func WithMaxDatasets(n int) Option {
	return func(s *MemoryStore) {
		s.maxDatasets = n
	}
}
