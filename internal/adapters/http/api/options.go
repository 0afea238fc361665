package api

// Option applies a configuration option to the API server.
type Option func(*limits)

type limits struct {
	maxBodyBytes int64
	maxLimit     int
}

func newLimits(opts []Option) limits {
	l := limits{
		maxBodyBytes: 64 << 20,
		maxLimit:     1000,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// WithMaxBodyBytes caps request bodies carrying rating tables.
func WithMaxBodyBytes(n int64) Option {
	return func(l *limits) {
		if n > 0 {
			l.maxBodyBytes = n
		}
	}
}

// WithMaxLimit caps the ?limit query parameter on ranking endpoints.
func WithMaxLimit(n int) Option {
	return func(l *limits) {
		if n > 0 {
			l.maxLimit = n
		}
	}
}
