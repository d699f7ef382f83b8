package export

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"datatools/internal/table"
)

// Meta describes the view state captured alongside an exported table.
type Meta struct {
	Filtered bool
	Sorted   bool
	// Tallies carries per-shape record counts when the table came out of
	// a shape-aware conversion. Nil for generic tables.
	Tallies map[string]int
}

// newExportID is a test seam.
var newExportID = uuid.NewString

type envelope struct {
	Metadata metadata         `json:"metadata"`
	Headers  []string         `json:"headers"`
	Data     []map[string]any `json:"data"`
}

type metadata struct {
	ExportedAt  string         `json:"exportedAt"`
	ExportID    string         `json:"exportId"`
	RecordCount int            `json:"recordCount"`
	ColumnCount int            `json:"columnCount"`
	Tallies     map[string]int `json:"tallies,omitempty"`
	Filters     string         `json:"filters"`
	Sorting     string         `json:"sorting"`
}

// JSON wraps the table in an export envelope carrying a timestamp, a
// unique export id, record and column counts and filter/sort
// indicators, then renders it indented.
func JSON(tbl *table.Table, meta Meta) ([]byte, error) {
	header := tbl.Header()
	rows := tbl.Rows()

	data := make([]map[string]any, len(rows))
	for i, row := range rows {
		obj := make(map[string]any, row.Len())
		for _, k := range row.Keys() {
			v, _ := row.Get(k)
			obj[k] = v
		}
		data[i] = obj
	}

	env := envelope{
		Metadata: metadata{
			ExportedAt:  now().UTC().Format(time.RFC3339Nano),
			ExportID:    newExportID(),
			RecordCount: len(rows),
			ColumnCount: len(header),
			Tallies:     meta.Tallies,
			Filters:     appliedOrNone(meta.Filtered),
			Sorting:     appliedOrNone(meta.Sorted),
		},
		Headers: header,
		Data:    data,
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode json envelope: %w", err)
	}
	return out, nil
}

func appliedOrNone(applied bool) string {
	if applied {
		return "Applied"
	}
	return "None"
}
