package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("dataset not found")
	ErrInvalidName = errors.New("invalid dataset name")
	ErrFull        = errors.New("dataset store full")
)
