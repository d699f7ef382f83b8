package main

import (
	"fmt"
	"log"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"datatools/internal/export"
	"datatools/internal/flatten"
	"datatools/internal/metrics"
	"datatools/internal/shape"
)

var (
	convertGeneric bool

	// Shape-aware options.
	flattenStatistics bool
	formatTimestamps  bool
	includeMetadata   bool
	summaryRow        bool

	// Generic flatten options.
	flattenNested     bool
	includeArrayIndex bool
	convertDates      bool
	includeEmptyRows  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.json]",
	Short: "Convert JSON records into a table",
	Long: `Convert a JSON object or array of objects into a flat table.

By default each record's shape (user, report, report-notes) is detected
and projected into that shape's column layout, with one row per note
for report-notes records and an appended totals row. With --generic the
records are flattened recursively into dot-path columns instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		start := time.Now()
		defer func() { observeRun("convert", start, err) }()

		applyConfigBool(cmd, "generic", "generic", &convertGeneric)
		applyConfigBool(cmd, "flatten-statistics", "flatten_statistics", &flattenStatistics)
		applyConfigBool(cmd, "format-timestamps", "format_timestamps", &formatTimestamps)
		applyConfigBool(cmd, "include-metadata", "include_metadata", &includeMetadata)
		applyConfigBool(cmd, "summary-row", "summary_row", &summaryRow)
		applyConfigBool(cmd, "flatten-nested", "flatten_nested", &flattenNested)
		applyConfigBool(cmd, "include-array-index", "include_array_index", &includeArrayIndex)
		applyConfigBool(cmd, "convert-dates", "convert_dates", &convertDates)
		applyConfigBool(cmd, "include-empty", "include_empty_rows", &includeEmptyRows)
		applyConfigString(cmd, "format", "format", &outFormat)

		data, err := readInput(args)
		if err != nil {
			return err
		}

		var input any
		if err := json.Unmarshal(data, &input); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}

		if convertGeneric {
			tbl, err := flatten.Table(input, flatten.Options{
				FlattenNested:     flattenNested,
				IncludeArrayIndex: includeArrayIndex,
				ConvertDates:      convertDates,
				IncludeEmptyRows:  includeEmptyRows,
			})
			if err != nil {
				return err
			}
			metrics.IncCounter(metrics.RecordsTotal, float64(tbl.RecordCount()), metrics.Labels{"kind": "processed"})
			return writeTable(tbl, export.Meta{})
		}

		res, err := shape.Convert(input, shape.Options{
			FlattenStatistics: flattenStatistics,
			FormatTimestamps:  formatTimestamps,
			IncludeMetadata:   includeMetadata,
			CreateSummaryRow:  summaryRow,
		})
		if err != nil {
			return err
		}

		metrics.IncCounter(metrics.RecordsTotal, float64(res.Outcome.Processed), metrics.Labels{"kind": "processed"})
		if n := res.Outcome.ErrorCount(); n > 0 {
			metrics.IncCounter(metrics.RecordsTotal, float64(n), metrics.Labels{"kind": "error"})
			for _, ie := range res.Outcome.Errors {
				log.Printf("convert: %v", ie)
			}
		}
		if verbose {
			log.Printf("convert: %s", res.Outcome.Summary())
		}

		return writeTable(res.Table, export.Meta{Tallies: tallyMap(res.Tallies)})
	},
}

func tallyMap(t shape.Tallies) map[string]int {
	m := make(map[string]int, 4)
	if t.Users > 0 {
		m["User_Records"] = t.Users
	}
	if t.Reports > 0 {
		m["Report_Records"] = t.Reports
	}
	if t.ReportNotes > 0 {
		m["Note_Records"] = t.ReportNotes
	}
	if t.Unknown > 0 {
		m["Unknown_Records"] = t.Unknown
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertGeneric, "generic", false, "flatten generically instead of shape-aware projection")

	convertCmd.Flags().BoolVar(&flattenStatistics, "flatten-statistics", true, "flatten statistics and answers into individual columns")
	convertCmd.Flags().BoolVar(&formatTimestamps, "format-timestamps", true, "format timestamp values as locale date strings")
	convertCmd.Flags().BoolVar(&includeMetadata, "include-metadata", true, "include path and read-time columns")
	convertCmd.Flags().BoolVar(&summaryRow, "summary-row", true, "append a totals summary row")

	convertCmd.Flags().BoolVar(&flattenNested, "flatten-nested", true, "recurse into nested objects (generic mode)")
	convertCmd.Flags().BoolVar(&includeArrayIndex, "include-array-index", false, "add an _index column per record (generic mode)")
	convertCmd.Flags().BoolVar(&convertDates, "convert-dates", false, "reformat ISO date strings (generic mode)")
	convertCmd.Flags().BoolVar(&includeEmptyRows, "include-empty", false, "emit empty cells for null values (generic mode)")

	addOutputFlags(convertCmd.Flags())
}
