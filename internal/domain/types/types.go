// Package types contains the read shapes shared by the service and the API.
package types

import "github.com/okian/simrank/internal/domain/model"

// Entry is one compared user in a ranking.
type Entry struct {
	UserID     model.UserID         `json:"user_id"`
	Inversions model.InversionCount `json:"inversions"`
}

// Ranking is the outcome of one ranking run.
type Ranking struct {
	RunID   string       `json:"run_id"`
	Target  model.UserID `json:"target"`
	Entries []Entry      `json:"entries"`
}

// Dataset describes a registered rating table.
type Dataset struct {
	Name  string `json:"name"`
	Users int    `json:"users"`
	Items int    `json:"items"`
}

// Stats is the service snapshot served for monitoring.
type Stats struct {
	Workers         int    `json:"workers"`
	DuplicatePolicy string `json:"duplicate_policy"`
	Datasets        int    `json:"datasets"`
	Runs            uint64 `json:"runs"`
	FailedRuns      uint64 `json:"failed_runs"`
}

// NewRanking converts a model result into its read shape, keeping at most
// limit entries when limit is positive.
func NewRanking(runID string, result model.RankingResult, limit int) Ranking {
	src := result.Entries
	if limit > 0 && limit < len(src) {
		src = src[:limit]
	}
	entries := make([]Entry, len(src))
	for i, r := range src {
		entries[i] = Entry{UserID: r.UserID, Inversions: r.Inversions}
	}
	return Ranking{RunID: runID, Target: result.Target, Entries: entries}
}
