// Package table provides the in-memory row/table containers shared by
// the conversion tools, plus a filter/sort/paginate view over them.
//
// Rows keep cell insertion order so fixed-layout projections render in
// their declared column order, while sniffed tables derive a canonical
// header as the sorted union of row keys. A table may end with a single
// summary row, marked by a sentinel identity value; summary rows stay in
// the exported data but are excluded from record statistics.
package table

import (
	"fmt"
	"strconv"
)

// Sentinel identity values marking a summary row.
const (
	SummaryIndex = "SUMMARY"
	SummaryPath  = "TOTALS"
)

// Row is an insertion-ordered mapping of column name to scalar cell
// (string, number, bool or nil).
type Row struct {
	keys []string
	vals map[string]any
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{vals: make(map[string]any)}
}

// Set stores a cell. Re-setting an existing column overwrites its value
// without changing its position.
func (r *Row) Set(key string, v any) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the cell and whether the column is present.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Keys returns the column names in insertion order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of cells.
func (r *Row) Len() int { return len(r.keys) }

// IsSummary reports whether the row carries a summary sentinel in its
// identity columns.
func (r *Row) IsSummary() bool {
	if v, ok := r.vals["Record_Index"]; ok && v == SummaryIndex {
		return true
	}
	if v, ok := r.vals["User_Path"]; ok && (v == SummaryIndex || v == SummaryPath) {
		return true
	}
	return false
}

// CellString renders a cell for display, filtering and text exports.
// nil renders as the empty string; floats drop their exponent form so a
// JSON-decoded 15 comes back as "15".
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		// Composite cells should have been serialized upstream.
		return fmt.Sprint(t)
	}
}

// cellNumber reports a cell's numeric value when it holds a number.
func cellNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
