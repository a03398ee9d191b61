package pobdata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/timeless-lut/tjlut/pkg/lut"
)

// ErrNoDataFiles is returned when none of a jewel's data files are present
var ErrNoDataFiles = errors.New("no data files")

// ErrMissingPart is returned when the part numbers of a multi-part file have a gap
var ErrMissingPart = errors.New("missing data file part")

// DecodeResult is the outcome of decoding one jewel type
type DecodeResult struct {
	Jewel  lut.Jewel
	Report *lut.Report
	Err    error
}

// DecodeErrors collects the jewel types that failed to decode
type DecodeErrors []DecodeResult

func (e DecodeErrors) Error() string {
	var msgs []string
	for _, r := range e {
		msgs = append(msgs, r.Err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e DecodeErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, r := range e {
		errs = append(errs, r.Err)
	}
	return errs
}

// DataFiles returns the data files of a jewel type found in dir, in decode order.
// Glorious Vanity parts are matched by glob and ordered by part number.
func DataFiles(dir string, j lut.Jewel) ([]string, error) {
	format, err := lut.FormatFor(j)
	if err != nil {
		return nil, err
	}
	if format.Layout == lut.HeaderedVariable {
		return partFiles(dir, j)
	}

	var paths []string
	for _, name := range format.Files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w in %s", j, ErrNoDataFiles, dir)
	}
	return paths, nil
}

// partFiles returns the "<jewel>.zip.partN" files in dir ordered by N. Names
// whose suffix is not all digits (e.g. an unfinished ".download") are ignored
// and the numbers must run 0..N without gaps.
func partFiles(dir string, j lut.Jewel) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, j.String()+".zip.part*"))
	if err != nil {
		return nil, err
	}
	parts := make(map[int]string, len(matches))
	for _, m := range matches {
		n, ok := partNumber(m)
		if !ok {
			log.WithField("file", filepath.Base(m)).Debug("Ignoring non-part file")
			continue
		}
		parts[n] = m
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s: %w in %s", j, ErrNoDataFiles, dir)
	}
	paths := make([]string, len(parts))
	for i := range paths {
		path, ok := parts[i]
		if !ok {
			return nil, fmt.Errorf("%s: %w: part%d", j, ErrMissingPart, i)
		}
		paths[i] = path
	}
	return paths, nil
}

func partNumber(path string) (int, bool) {
	idx := strings.LastIndex(path, ".part")
	if idx < 0 {
		return 0, false
	}
	suffix := path[idx+len(".part"):]
	if suffix == "" {
		return 0, false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DecodeJewels decodes the given jewel types (all of them when none are given)
// from dir in parallel and inserts each table into agg. A failed or missing
// jewel never stops the others; its error is in its DecodeResult.
func DecodeJewels(ctx context.Context, dir string, agg *lut.Aggregate, jewels ...lut.Jewel) []DecodeResult {
	return DecodeJewelsN(ctx, dir, agg, runtime.NumCPU(), jewels...)
}

// DecodeJewelsN is DecodeJewels with at most limit jewels decoding at once.
func DecodeJewelsN(ctx context.Context, dir string, agg *lut.Aggregate, limit int, jewels ...lut.Jewel) []DecodeResult {
	if len(jewels) == 0 {
		jewels = lut.Jewels()
	}
	if limit < 1 {
		limit = 1
	}

	results := make([]DecodeResult, len(jewels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, j := range jewels {
		g.Go(func() error {
			results[i] = DecodeResult{Jewel: j}
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			paths, err := DataFiles(dir, j)
			if err != nil {
				log.WithError(err).Warnf("Skipping %s", j)
				results[i].Err = err
				return nil
			}
			log.WithFields(log.Fields{
				"jewel": j,
				"files": len(paths),
			}).Debug("Decoding")

			table, report, err := lut.DecodeFile(j, paths...)
			results[i].Report = report
			if err != nil {
				results[i].Err = err
				return nil
			}
			if err := agg.Insert(table); err != nil {
				results[i].Err = err
				return nil
			}
			log.WithFields(log.Fields{
				"jewel":    j,
				"seeds":    table.Table.Len(),
				"entries":  table.Table.Entries(),
				"warnings": len(report.Warnings),
			}).Info("Decoded")
			return nil
		})
	}
	g.Wait()

	return results
}

// ParseDirectory parses the Lua metadata in dir and decodes every jewel type
// whose data files are present. Jewels that fail to decode are returned as
// DecodeErrors alongside the data.
func ParseDirectory(ctx context.Context, dir string) (*LutData, error) {
	mapping, err := ParseNodeIndexMapping(filepath.Join(dir, NodeIndexMappingFile))
	if err != nil {
		return nil, fmt.Errorf("failed to parse node index mapping: %w", err)
	}
	passives, err := ParseLegionPassives(filepath.Join(dir, LegionPassivesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to parse legion passives: %w", err)
	}
	log.WithFields(log.Fields{
		"nodes":     len(mapping.Nodes),
		"modifiers": len(passives.Additions),
	}).Info("Parsed passive tree metadata")

	data := FromPob(mapping, passives)

	var failed DecodeErrors
	for _, r := range DecodeJewels(ctx, dir, data.Jewels) {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		return data, failed
	}
	return data, nil
}
