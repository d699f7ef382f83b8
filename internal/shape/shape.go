// Package shape classifies survey records into semantic shapes and
// projects them into fixed tabular layouts.
//
// A record arrives either bare or wrapped in a storage-read envelope
// {path, data, readTime}; both forms are treated uniformly by
// unwrapping first. Detection is best-effort and never fails: records
// that match no known shape project through the generic flattener.
package shape

import (
	"time"

	"github.com/goccy/go-json"
)

// Shape tags which projection rule applies to a source record.
type Shape string

const (
	Users       Shape = "users"
	Reports     Shape = "reports"
	ReportNotes Shape = "report-notes"
	Unknown     Shape = "unknown"
)

// collection returns the storage collection name used when synthesizing
// a path for bare records.
func (s Shape) collection() string {
	if s == Unknown {
		return "records"
	}
	return string(s)
}

// Options control projection.
type Options struct {
	// FlattenStatistics expands statistics/answers sub-objects into
	// individual columns; otherwise they serialize into one cell.
	FlattenStatistics bool
	// FormatTimestamps renders envelope timestamps and
	// {_seconds,_nanoseconds} values as readable dates.
	FormatTimestamps bool
	// IncludeMetadata carries path and readTime columns.
	IncludeMetadata bool
	// CreateSummaryRow appends an aggregate totals row (consumed by
	// Convert).
	CreateSummaryRow bool
	// MultiRecord adds a 1-based Record_Index column; set when the
	// overall input was an array with more than one element.
	MultiRecord bool
}

// DefaultOptions mirror the tool's checked-by-default switches.
func DefaultOptions() Options {
	return Options{
		FlattenStatistics: true,
		FormatTimestamps:  true,
		IncludeMetadata:   true,
		CreateSummaryRow:  true,
	}
}

// envelope is the unwrapped form of one source record.
type envelope struct {
	path     string
	payload  map[string]any
	readTime any
}

// unwrap splits a record into its envelope parts. Bare records become
// their own payload with a synthesized <collection>/<id> path.
func unwrap(record map[string]any, shape Shape) envelope {
	path, hasPath := record["path"].(string)
	data, hasData := record["data"].(map[string]any)
	if hasPath && hasData {
		return envelope{path: path, payload: data, readTime: record["readTime"]}
	}

	id, _ := record["id"].(string)
	if id == "" {
		id, _ = record["uid"].(string)
	}
	return envelope{
		path:     shape.collection() + "/" + id,
		payload:  record,
		readTime: record["readTime"],
	}
}

// formatTimestamp renders a timestamp-like value for display.
//
// Accepted forms:
//   - {_seconds, _nanoseconds?}: converted via seconds*1000 + nanos/1e6
//   - parseable RFC3339 / date string
//
// Anything else (or a parse failure) passes through unchanged; when
// formatting is off, composite values serialize into one cell so they
// stay representable.
func formatTimestamp(v any, format bool) any {
	if v == nil {
		return nil
	}
	if !format {
		if m, ok := v.(map[string]any); ok {
			return jsonCell(m)
		}
		return v
	}

	switch t := v.(type) {
	case map[string]any:
		secs, ok := asFloat(t["_seconds"])
		if !ok {
			return jsonCell(t)
		}
		nanos, _ := asFloat(t["_nanoseconds"])
		ms := int64(secs*1000) + int64(nanos/1e6)
		return time.UnixMilli(ms).UTC().Format(timestampLayout)

	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.UTC().Format(timestampLayout)
		}
		if ts, err := time.Parse("2006-01-02", t); err == nil {
			return ts.UTC().Format(timestampLayout)
		}
		return t

	default:
		return v
	}
}

// timestampLayout matches the original display format
// (en-US toLocaleString).
const timestampLayout = "1/2/2006, 3:04:05 PM"

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

func jsonCell(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// has reports whether m carries key with a non-nil value.
func has(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}
