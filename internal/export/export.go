// Package export renders a table into the artifact encodings offered to
// the user: tab-separated text for spreadsheet paste, CSV, a padded
// fixed-width plain-text report, a JSON envelope with export metadata,
// and a single-table SQLite database file.
package export

import (
	"strconv"
	"strings"
	"time"

	"datatools/internal/table"
)

// now is a test seam for export timestamps.
var now = time.Now

// TSV renders the table as tab-separated lines, header first. Tabs and
// newlines inside cells are replaced with spaces so each row stays one
// line.
func TSV(tbl *table.Table) string {
	header := tbl.Header()

	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteByte('\n')

	for _, row := range tbl.Rows() {
		for i, col := range header {
			if i > 0 {
				b.WriteByte('\t')
			}
			v, _ := row.Get(col)
			b.WriteString(tsvCell(table.CellString(v)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func tsvCell(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// CSV renders the table as comma-separated lines with RFC 4180 style
// quoting: cells containing a comma, quote or newline are wrapped in
// quotes with inner quotes doubled.
func CSV(tbl *table.Table) string {
	header := tbl.Header()

	var b strings.Builder
	for i, col := range header {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvCell(col))
	}
	b.WriteByte('\n')

	for _, row := range tbl.Rows() {
		for i, col := range header {
			if i > 0 {
				b.WriteByte(',')
			}
			v, _ := row.Get(col)
			b.WriteString(csvCell(table.CellString(v)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func csvCell(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// textColumnCap bounds per-column width in the fixed-width rendering so
// one long cell cannot blow up the whole report.
const textColumnCap = 30

// Text renders the table as a fixed-width plain-text report with a
// title block. Each column is padded to the widest value it holds,
// capped at textColumnCap runes; longer values are truncated.
func Text(tbl *table.Table, title string) string {
	header := tbl.Header()
	rows := tbl.Rows()

	widths := make([]int, len(header))
	for i, col := range header {
		w := len([]rune(col))
		for _, row := range rows {
			v, _ := row.Get(col)
			if n := len([]rune(table.CellString(v))); n > w {
				w = n
			}
		}
		if w > textColumnCap {
			w = textColumnCap
		}
		widths[i] = w
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString("Generated: " + now().Format("1/2/2006, 3:04:05 PM") + "\n")
	b.WriteString("Records: " + strconv.Itoa(len(rows)) + "\n")
	b.WriteString("Columns: " + strconv.Itoa(len(header)) + "\n")
	b.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")

	cells := make([]string, len(header))
	for i, col := range header {
		cells[i] = pad(col, widths[i])
	}
	headerRow := strings.Join(cells, " | ")
	b.WriteString(headerRow + "\n")
	b.WriteString(strings.Repeat("-", len([]rune(headerRow))) + "\n")

	for _, row := range rows {
		for i, col := range header {
			v, _ := row.Get(col)
			cells[i] = pad(table.CellString(v), widths[i])
		}
		b.WriteString(strings.Join(cells, " | ") + "\n")
	}
	return b.String()
}

// pad truncates s to width runes and right-pads with spaces.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		r = r[:width]
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}
