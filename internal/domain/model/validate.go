package model

import "fmt"

// CheckPermutation reports ErrIntegrity unless ratings holds every value of
// 1..=len(ratings) exactly once.
func CheckPermutation(ratings []Rating) error {
	n := len(ratings)
	seen := make([]bool, n+1)
	for i, r := range ratings {
		if r == 0 || uint64(r) > uint64(n) {
			return fmt.Errorf("%w: rank %d at item %d outside 1..%d", ErrIntegrity, r, i, n)
		}
		if seen[r] {
			return fmt.Errorf("%w: rank %d assigned twice", ErrIntegrity, r)
		}
		seen[r] = true
	}
	return nil
}

// Validate checks the table invariants: every row carries Items ratings and
// each row is a permutation of 1..=Items.
func (t *RatingTable) Validate() error {
	if t.Items < 0 {
		return fmt.Errorf("%w: negative item count %d", ErrMalformedInput, t.Items)
	}
	for i := range t.Rows {
		row := &t.Rows[i]
		if len(row.Ratings) != t.Items {
			return fmt.Errorf("%w: user %d has %d ratings, want %d", ErrIntegrity, row.ID, len(row.Ratings), t.Items)
		}
		if err := CheckPermutation(row.Ratings); err != nil {
			return fmt.Errorf("user %d: %w", row.ID, err)
		}
	}
	return nil
}

// Duplicates returns every user ID that appears on more than one row, in order
// of their second appearance.
func (t *RatingTable) Duplicates() []UserID {
	seen := make(map[UserID]int, len(t.Rows))
	var dups []UserID
	for i := range t.Rows {
		id := t.Rows[i].ID
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
