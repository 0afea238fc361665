package textio

import "github.com/okian/simrank/internal/domain/model"

// Option applies a configuration option to the decoder.
type Option func(*decoder)

// WithPolicy selects how repeated user IDs are treated while decoding.
// model.PolicyReject fails with model.ErrDuplicateUser on the repeated row.
func WithPolicy(p model.DuplicatePolicy) Option {
	return func(d *decoder) {
		if p != "" {
			d.policy = p
		}
	}
}

// WithPermutationCheck toggles the per-row check that ranks form a
// permutation of 1..=items. Enabled by default.
func WithPermutationCheck(enabled bool) Option {
	return func(d *decoder) {
		d.strict = enabled
	}
}

// WithMaxLineBytes bounds the length of one record.
func WithMaxLineBytes(n int) Option {
	return func(d *decoder) {
		if n > 0 {
			d.maxLine = n
		}
	}
}
