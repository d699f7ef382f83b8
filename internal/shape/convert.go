package shape

import (
	"errors"
	"fmt"

	"datatools/internal/table"
)

// ErrNoData is returned when a conversion over the whole input yields
// zero rows. This is terminal for the conversion, unlike individual
// item skips.
var ErrNoData = errors.New("shape: no valid data found to process")

// Result is the outcome of one conversion call.
type Result struct {
	Table   *table.Table
	Tallies Tallies
	Outcome table.BatchOutcome
}

// Convert runs the full shape-aware pipeline over a decoded JSON input:
// detect each record's shape, project it (expanding one-to-many rows),
// tally shapes, and optionally append a summary row.
//
// Error policy:
//   - Non-object/array input fails immediately, before any processing.
//   - Per-item failures are isolated: counted in the outcome, the rest
//     of the batch continues.
//   - Zero projected rows overall is a terminal ErrNoData.
//   - Summary-row failure is non-fatal; the table ships without it.
//
// Each call builds a fresh table, so re-running on the same input is
// idempotent.
func Convert(input any, opts Options) (Result, error) {
	var res Result

	var items []any
	switch v := input.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return res, fmt.Errorf("shape: input must be an object or array of objects")
	}
	opts.MultiRecord = len(items) > 1

	tbl := table.New(table.SortedUnion)
	var projected []*table.Row

	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok || m == nil {
			res.Outcome.Fail(i, fmt.Errorf("shape: item %d is not an object", i))
			continue
		}

		s := Detect(m)
		res.Tallies.Add(s)

		rows, err := Project(m, s, opts, i)
		if err != nil {
			res.Outcome.Fail(i, err)
			continue
		}
		for _, row := range rows {
			projected = append(projected, row)
			tbl.Append(row)
			res.Outcome.Record()
		}
	}

	if len(projected) == 0 {
		return res, ErrNoData
	}

	if opts.CreateSummaryRow {
		if summary, err := Summarize(projected, res.Tallies); err == nil {
			tbl.Append(summary)
		}
	}

	res.Table = tbl
	return res, nil
}
