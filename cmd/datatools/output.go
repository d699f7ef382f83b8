package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"datatools/internal/export"
	"datatools/internal/table"
)

var (
	outFormat   string
	outPath     string
	sqliteTable string

	filterColumn string
	filterValue  string
	sortColumn   string
	sortDesc     bool
	pageSize     int
	page         int
)

// addOutputFlags registers the shared export and view flags on a
// table-producing subcommand.
func addOutputFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringVar(&outFormat, "format", "tsv", "output format: tsv, csv, txt, json or sqlite")
	cmdFlags.StringVar(&outPath, "out", "", "output file (default stdout; required for sqlite)")
	cmdFlags.StringVar(&sqliteTable, "sqlite-table", "export_data", "table name for sqlite output")

	cmdFlags.StringVar(&filterColumn, "filter-column", "", "column to filter on")
	cmdFlags.StringVar(&filterValue, "filter-value", "", "substring the filter column must contain")
	cmdFlags.StringVar(&sortColumn, "sort-column", "", "column to sort by")
	cmdFlags.BoolVar(&sortDesc, "sort-desc", false, "sort descending")
	cmdFlags.IntVar(&pageSize, "page-size", 0, "page size (50, 100, 200, 500 or 1000; 0 = all rows)")
	cmdFlags.IntVar(&page, "page", 1, "page to emit when --page-size is set")
}

// applyView runs the filter/sort/pagination flags over the table and
// returns the rows to export.
func applyView(tbl *table.Table) (*table.Table, error) {
	v := table.NewView(tbl)

	if filterColumn != "" || filterValue != "" {
		if err := v.Filter(filterColumn, filterValue); err != nil {
			return nil, err
		}
	}
	if sortColumn != "" {
		dir := table.Ascending
		if sortDesc {
			dir = table.Descending
		}
		if err := v.Sort(sortColumn, dir); err != nil {
			return nil, err
		}
	}

	rows := v.Rows()
	if pageSize > 0 {
		if err := v.SetPageSize(pageSize); err != nil {
			return nil, err
		}
		for v.CurrentPage() < page && v.CurrentPage() < v.TotalPages() {
			v.Next()
		}
		rows, _, _ = v.Page()
	}

	out := table.New(table.DeclaredOrder)
	out.SetHeader(tbl.Header())
	for _, r := range rows {
		out.Append(r)
	}
	return out, nil
}

// writeTable renders the table in the selected format to --out or
// stdout.
func writeTable(tbl *table.Table, meta export.Meta) error {
	viewed, err := applyView(tbl)
	if err != nil {
		return err
	}
	meta.Filtered = filterColumn != "" || filterValue != ""
	meta.Sorted = sortColumn != ""

	switch outFormat {
	case "tsv":
		return writeOut([]byte(export.TSV(viewed)))
	case "csv":
		return writeOut([]byte(export.CSV(viewed)))
	case "txt":
		return writeOut([]byte(export.Text(viewed, "Data Export")))
	case "json":
		b, err := export.JSON(viewed, meta)
		if err != nil {
			return err
		}
		return writeOut(append(b, '\n'))
	case "sqlite":
		if outPath == "" {
			return fmt.Errorf("sqlite output requires --out")
		}
		return export.SQLite(context.Background(), outPath, sqliteTable, viewed)
	default:
		return fmt.Errorf("unknown format %q", outFormat)
	}
}

func writeOut(b []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(outPath, b, 0o644)
}
