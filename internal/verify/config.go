// Package verify replays stored ranking cases and compares the produced
// files byte for byte with the expected ones.
//
// Layout under the data directory:
//
//	input/<stem>.txt                     rating tables
//	output/expected/<stem>/<target>.txt  expected ranking for target
//	output/actual/<stem>/<target>.txt    written by Run
package verify

import (
	"context"
	"path/filepath"

	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/internal/domain/types"
)

// Ranker produces a ranking file for one target.
type Ranker interface {
	RankFile(ctx context.Context, inPath string, target model.UserID, outPath string) (types.Ranking, error)
}

// Config holds the harness settings.
type Config struct {
	// DataDir is the root of the input and output trees.
	DataDir string
}

func (c *Config) inputDir() string    { return filepath.Join(c.DataDir, "input") }
func (c *Config) expectedDir() string { return filepath.Join(c.DataDir, "output", "expected") }
func (c *Config) actualDir() string   { return filepath.Join(c.DataDir, "output", "actual") }

// Status is the outcome of one case.
type Status string

// Case outcomes.
const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	StatusError  Status = "error"
)

// Case is one (input, target) pair.
type Case struct {
	Input    string
	Target   string
	Expected string
	Actual   string
	Status   Status
	Err      error
}

// Report is the result of a harness run.
type Report struct {
	Cases   []Case
	Skipped []string
}
