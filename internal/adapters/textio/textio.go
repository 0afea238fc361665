// Package textio reads rating tables from and writes rankings to the plain
// two-column text format.
//
// Input: a header "<users> <items>" followed by one record per user,
// "<id> <r1> ... <r_items>". Output: the target id on the first line, then
// "<id> <inversions>" per ranked user.
package textio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/simrank/internal/domain/dedupe"
	"github.com/okian/simrank/internal/domain/model"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o640
)

const (
	defaultMaxLineBytes = 64 << 20
	initialLineBuffer   = 64 << 10
)

type decoder struct {
	policy  model.DuplicatePolicy
	strict  bool
	maxLine int
}

// Decode parses a rating table from r.
func Decode(r io.Reader, opts ...Option) (*model.RatingTable, error) {
	d := &decoder{
		policy:  model.PolicyReject,
		strict:  true,
		maxLine: defaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d.decode(r)
}

func (d *decoder) decode(r io.Reader) (*model.RatingTable, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(initialLineBuffer, d.maxLine)), d.maxLine)

	// A failed read leaves the last record truncated; report the read error.
	fail := func(err error) (*model.RatingTable, error) {
		if rerr := sc.Err(); rerr != nil {
			return nil, fmt.Errorf("read rating table: %w", rerr)
		}
		return nil, err
	}

	var (
		table   *model.RatingTable
		users   int
		lineNo  int
		seen    dedupe.Deduper
		dupLine int
	)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if table == nil {
			if len(fields) != 2 {
				return fail(fmt.Errorf("line %d: %w: header needs 2 fields, got %d", lineNo, model.ErrMalformedInput, len(fields)))
			}
			u, err := parseUint32(fields[0])
			if err != nil {
				return fail(fmt.Errorf("line %d: user count: %w", lineNo, err))
			}
			items, err := parseUint32(fields[1])
			if err != nil {
				return fail(fmt.Errorf("line %d: item count: %w", lineNo, err))
			}
			users = int(u)
			table = &model.RatingTable{Items: int(items), Rows: make([]model.Row, 0, min(users, 1<<16))}
			seen = dedupe.NewInMemoryDeduper(dedupe.WithExpectedSize(min(users, 1<<16)))
			continue
		}

		row, err := d.parseRow(fields, table.Items)
		if err != nil {
			return fail(fmt.Errorf("line %d: %w", lineNo, err))
		}
		if seen.SeenAndRecord(row.ID) && dupLine == 0 {
			dupLine = lineNo
		}
		table.Rows = append(table.Rows, row)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d: %w: record longer than %d bytes", lineNo+1, model.ErrMalformedInput, d.maxLine)
		}
		return nil, fmt.Errorf("read rating table: %w", err)
	}

	if table == nil {
		return nil, fmt.Errorf("%w: missing header", model.ErrMalformedInput)
	}
	if d.policy == model.PolicyReject && dupLine > 0 {
		return nil, fmt.Errorf("line %d: %w: %v", dupLine, model.ErrDuplicateUser, seen.Duplicates())
	}
	if len(table.Rows) != users {
		return nil, fmt.Errorf("%w: header declares %d users, found %d", model.ErrMalformedInput, users, len(table.Rows))
	}
	return table, nil
}

func (d *decoder) parseRow(fields []string, items int) (model.Row, error) {
	if len(fields) != items+1 {
		return model.Row{}, fmt.Errorf("%w: want id and %d ratings, got %d fields", model.ErrMalformedInput, items, len(fields))
	}
	id, err := parseUint32(fields[0])
	if err != nil {
		return model.Row{}, fmt.Errorf("user id: %w", err)
	}
	ratings := make([]model.Rating, items)
	for i, f := range fields[1:] {
		v, err := parseUint32(f)
		if err != nil {
			return model.Row{}, fmt.Errorf("user %d item %d: %w", id, i, err)
		}
		ratings[i] = v
	}
	if d.strict {
		if err := model.CheckPermutation(ratings); err != nil {
			return model.Row{}, fmt.Errorf("user %d: %w", id, err)
		}
	}
	return model.Row{ID: id, Ratings: ratings}, nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q does not fit in 32 bits", model.ErrOverflow, s)
		}
		return 0, fmt.Errorf("%w: %q is not an unsigned integer", model.ErrMalformedInput, s)
	}
	return uint32(v), nil
}

// ReadFile decodes the rating table stored at path.
func ReadFile(path string, opts ...Option) (*model.RatingTable, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("open rating table: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Encode writes result in the two-column text format.
func Encode(w io.Writer, result model.RankingResult) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	buf = strconv.AppendUint(buf[:0], uint64(result.Target), 10)
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	for _, e := range result.Entries {
		buf = strconv.AppendUint(buf[:0], uint64(e.UserID), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, e.Inversions, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write ranking: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	return nil
}

// WriteFile writes result to path, creating missing parent directories.
func WriteFile(path string, result model.RankingResult) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()
	return Encode(f, result)
}
