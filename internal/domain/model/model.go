// Package model contains the rating and ranking types passed between layers.
package model

// UserID identifies one row of a rating table. IDs are not required to be
// contiguous or sorted.
type UserID = uint32

// Rating is the rank a user gave to one item, 1..=Items.
type Rating = uint32

// InversionCount is the dissimilarity score of one comparison user.
type InversionCount = uint64

// Row is one user's ratings, indexed by item position.
type Row struct {
	ID      UserID
	Ratings []Rating
}

// RatingTable is the decoded input matrix. It is read-only after construction.
type RatingTable struct {
	Rows  []Row
	Items int // declared item count; every row carries exactly Items ratings
}

// Users returns the number of rows in the table.
func (t *RatingTable) Users() int {
	return len(t.Rows)
}

// Lookup returns the indices of every row carrying id, in input order.
func (t *RatingTable) Lookup(id UserID) []int {
	var idx []int
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			idx = append(idx, i)
		}
	}
	return idx
}

// CollisionVector holds a comparison user's ratings re-ordered by the
// target user's ranking. Position i is the item the target ranked i+1.
type CollisionVector = []Rating

// Ranking is one (user, dissimilarity) pair of a result.
type Ranking struct {
	UserID     UserID
	Inversions InversionCount
}

// RankingResult is the ordered output for one target user. Entries are sorted
// ascending by Inversions; equal counts keep input order.
type RankingResult struct {
	Target  UserID
	Entries []Ranking
}

// Job is one unit of comparison work: a row and its position in the table.
type Job struct {
	Index int
	Row   Row
}

// Outcome is the result of processing one Job.
type Outcome struct {
	Index      int
	UserID     UserID
	Inversions InversionCount
	Err        error
}
