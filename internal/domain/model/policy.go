package model

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides how repeated user IDs in a table are treated.
type DuplicatePolicy string

const (
	// PolicyReject treats any repeated user ID as ErrDuplicateUser.
	PolicyReject DuplicatePolicy = "reject"
	// PolicyLast takes the last row carrying the target ID as the target and
	// skips every row carrying that ID during comparison. Repeated IDs of
	// other users are compared once per row.
	PolicyLast DuplicatePolicy = "last"
)

// ParsePolicy maps a configuration string onto a DuplicatePolicy.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyLast:
		return PolicyLast, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}
