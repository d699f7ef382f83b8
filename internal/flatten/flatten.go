// Package flatten converts nested JSON values into flat dot-path keyed
// rows.
//
// The flattener is pure given its inputs (it only accumulates into the
// row it is handed) and never fails: values it cannot represent are
// serialized into a single cell instead. Object keys are walked in
// sorted order so flattening the same value twice yields the same row.
package flatten

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"datatools/internal/table"
)

// Options control how nested structure collapses into cells.
type Options struct {
	// FlattenNested recurses into nested objects with dot-composed
	// keys and joins arrays element-wise; when false both are
	// JSON-serialized into a single cell.
	FlattenNested bool
	// IncludeArrayIndex adds an _index column when flattening the
	// elements of a top-level array (see Record).
	IncludeArrayIndex bool
	// ConvertDates reformats string leaves that start with an ISO
	// date (YYYY-MM-DD) and parse cleanly; other values pass through.
	ConvertDates bool
	// IncludeEmptyRows emits "" for null leaves instead of omitting
	// the key.
	IncludeEmptyRows bool
	// MaxDepth bounds recursion on pathological nesting; levels past
	// the bound are serialized, not recursed. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero.
// Parsed JSON is acyclic, so this is purely a stack guard.
const DefaultMaxDepth = 64

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Flatten folds value into row under prefix according to opts.
// value is expected to be a decoded JSON object (map[string]any).
func Flatten(value map[string]any, prefix string, opts Options, row *table.Row) {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	flattenObject(value, prefix, opts, row, depth)
}

// Record builds one flat row for a record in a collection, mirroring
// the generic JSON-to-table path: an optional _index column followed by
// the flattened record.
func Record(obj map[string]any, opts Options, index int) *table.Row {
	row := table.NewRow()
	if opts.IncludeArrayIndex {
		row.Set("_index", index)
	}
	Flatten(obj, "", opts, row)
	return row
}

func flattenObject(obj map[string]any, prefix string, opts Options, row *table.Row, depth int) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		newKey := key
		if prefix != "" {
			newKey = prefix + "." + key
		}
		flattenValue(obj[key], newKey, opts, row, depth)
	}
}

func flattenValue(v any, key string, opts Options, row *table.Row, depth int) {
	switch t := v.(type) {
	case nil:
		if opts.IncludeEmptyRows {
			row.Set(key, "")
		}

	case []any:
		if opts.FlattenNested {
			row.Set(key, joinArray(t))
		} else {
			row.Set(key, jsonCell(t))
		}

	case map[string]any:
		if opts.FlattenNested && depth > 1 {
			flattenObject(t, key, opts, row, depth-1)
		} else {
			row.Set(key, jsonCell(t))
		}

	case string:
		if opts.ConvertDates {
			if formatted, ok := formatDateString(t); ok {
				row.Set(key, formatted)
				return
			}
		}
		row.Set(key, t)

	default:
		// Scalar leaf: numbers and bools pass through unchanged.
		row.Set(key, t)
	}
}

// joinArray stringifies each element (objects via JSON, scalars via
// string coercion) and joins with ", ". Arrays never expand into
// multiple rows here; row expansion belongs to shape projection.
func joinArray(arr []any) string {
	parts := make([]string, len(arr))
	for i, el := range arr {
		switch el.(type) {
		case map[string]any, []any:
			parts[i] = jsonCell(el)
		default:
			parts[i] = table.CellString(el)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// jsonCell serializes a composite value into one cell.
func jsonCell(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// formatDateString reformats s when it starts with YYYY-MM-DD and
// parses as a date. The second return is false when s should pass
// through unchanged.
func formatDateString(s string) (string, bool) {
	if !isoDatePrefix.MatchString(s) {
		return "", false
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.Format("1/2/2006"), true
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.Format("1/2/2006"), true
	}
	return "", false
}
