package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/logger"
)

const inputExt = ".txt"

// Run executes every case found under cfg.DataDir. The returned error wraps
// ErrCasesFailed when at least one case did not pass; the report is filled
// in either way.
func Run(ctx context.Context, cfg *Config, ranker Ranker) (*Report, error) {
	log := logger.Named("verify")

	inputs, err := os.ReadDir(cfg.inputDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoInputDir, cfg.inputDir())
		}
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	report := &Report{}
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if in.IsDir() {
			continue
		}
		inPath := filepath.Join(cfg.inputDir(), in.Name())
		if filepath.Ext(in.Name()) != inputExt {
			log.Warn(ctx, "not a .txt file, skipping", logger.String("input", inPath))
			report.Skipped = append(report.Skipped, inPath)
			continue
		}

		stem := strings.TrimSuffix(in.Name(), inputExt)
		caseDir := filepath.Join(cfg.expectedDir(), stem)
		expected, err := os.ReadDir(caseDir)
		if err != nil {
			log.Warn(ctx, "no cases found, skipping", logger.String("input", inPath))
			report.Skipped = append(report.Skipped, inPath)
			continue
		}

		for _, exp := range expected {
			if exp.IsDir() {
				continue
			}
			c := runCase(ctx, ranker, inPath, filepath.Join(caseDir, exp.Name()),
				filepath.Join(cfg.actualDir(), stem))
			log.Debug(ctx, "case finished",
				logger.String("input", c.Input),
				logger.String("target", c.Target),
				logger.String("status", string(c.Status)),
			)
			report.Cases = append(report.Cases, c)
		}
	}

	if failed := report.Failed(); failed > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrCasesFailed, failed, len(report.Cases))
	}
	return report, nil
}

func runCase(ctx context.Context, ranker Ranker, inPath, expectedPath, actualDir string) Case {
	name := filepath.Base(expectedPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	c := Case{
		Input:    inPath,
		Target:   stem,
		Expected: expectedPath,
		Actual:   filepath.Join(actualDir, stem+inputExt),
	}

	target, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		c.Status, c.Err = StatusError, fmt.Errorf("target %q is not a user id", stem)
		return c
	}
	if _, err := ranker.RankFile(ctx, inPath, model.UserID(target), c.Actual); err != nil {
		c.Status, c.Err = StatusError, err
		return c
	}

	same, err := sameBytes(expectedPath, c.Actual)
	switch {
	case err != nil:
		c.Status, c.Err = StatusError, err
	case same:
		c.Status = StatusPassed
	default:
		c.Status, c.Err = StatusFailed, errors.New("files are not identical")
	}
	return c
}

func sameBytes(a, b string) (bool, error) {
	x, err := os.ReadFile(a) //nolint:gosec // paths come from the data directory
	if err != nil {
		return false, err
	}
	y, err := os.ReadFile(b) //nolint:gosec // paths come from the data directory
	if err != nil {
		return false, err
	}
	return bytes.Equal(x, y), nil
}

// Passed counts the cases that matched.
func (r *Report) Passed() int {
	return lo.CountBy(r.Cases, func(c Case) bool { return c.Status == StatusPassed })
}

// Failed counts the cases that did not match or could not run.
func (r *Report) Failed() int {
	return len(r.Cases) - r.Passed()
}
