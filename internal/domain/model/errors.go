package model

import "errors"

// Sentinel error kinds shared by the core and its boundaries. Callers use
// errors.Is to tell them apart.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrUserNotFound   = errors.New("user not found")
	ErrOverflow       = errors.New("numeric overflow")
	ErrIntegrity      = errors.New("rating data integrity violated")
	ErrDuplicateUser  = errors.New("duplicate user id")
)
