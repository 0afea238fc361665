package verify

import "errors"

// Sentinel kinds for harness errors.
var (
	ErrCasesFailed = errors.New("verification cases failed")
	ErrNoInputDir  = errors.New("input directory missing")
)
