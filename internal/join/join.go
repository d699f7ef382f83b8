// Package join parses delimited text blocks into row sets and performs
// a key-based left join between two of them, tracking unmatched rows on
// both sides.
package join

import (
	"fmt"
	"strings"

	"datatools/internal/table"
)

// Delimiter names a cell separator for parsing and rendering.
type Delimiter string

const (
	Tab       Delimiter = "tab"
	Comma     Delimiter = "comma"
	Semicolon Delimiter = "semicolon"
	Pipe      Delimiter = "pipe"
	Space     Delimiter = "space"
)

var separators = map[Delimiter]string{
	Tab:       "\t",
	Comma:     ",",
	Semicolon: ";",
	Pipe:      "|",
	Space:     " ",
}

// ParseDelimiter resolves a delimiter name from configuration input.
func ParseDelimiter(name string) (Delimiter, error) {
	d := Delimiter(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := separators[d]; !ok {
		return "", fmt.Errorf("join: unknown delimiter %q", name)
	}
	return d, nil
}

// Sep returns the separator string for the delimiter. Unknown values
// fall back to tab, the parse default.
func (d Delimiter) Sep() string {
	if s, ok := separators[d]; ok {
		return s
	}
	return "\t"
}

// ParseOptions controls how a text block is split into rows.
type ParseOptions struct {
	Delimiter Delimiter
	HasHeader bool
}

// ParseRows splits a text block into rows of trimmed cells. Blank lines
// are dropped; when HasHeader is set the first surviving row is treated
// as a header and removed.
func ParseRows(text string, opts ParseOptions) [][]string {
	sep := opts.Delimiter.Sep()

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, sep)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}

	if opts.HasHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows
}

// Result carries the three outcome sets of a join. Every input A row
// lands in exactly one of Mapped or UnmappedA; UnmappedB holds the B
// rows whose key never matched.
type Result struct {
	Mapped    [][]string
	UnmappedA [][]string
	UnmappedB [][]string
}

// cellAt returns the trimmed key cell, or "" when the index is out of
// range. An empty key never participates in matching.
func cellAt(row []string, ix int) string {
	if ix < 0 || ix >= len(row) {
		return ""
	}
	return row[ix]
}

// Join left-joins a against b on the given key column indexes.
//
// The b side is indexed by its key cell with last write winning on
// duplicates. Each a row with a lookup hit emits the concatenation of
// its cells followed by the matching b row's cells, and retires the
// first still-unmatched b row carrying that key. Key comparison is
// exact string equality over the already-trimmed cells.
func Join(a, b [][]string, keyA, keyB int) (Result, error) {
	if keyA < 0 || keyB < 0 {
		return Result{}, fmt.Errorf("join: key column indexes must be non-negative (got %d, %d)", keyA, keyB)
	}

	lookup := make(map[string][]string, len(b))
	for _, row := range b {
		if k := cellAt(row, keyB); k != "" {
			lookup[k] = row
		}
	}

	res := Result{UnmappedB: make([][]string, len(b))}
	copy(res.UnmappedB, b)

	for _, rowA := range a {
		key := cellAt(rowA, keyA)
		rowB, ok := lookup[key]
		if key == "" || !ok {
			res.UnmappedA = append(res.UnmappedA, rowA)
			continue
		}

		combined := make([]string, 0, len(rowA)+len(rowB))
		combined = append(combined, rowA...)
		combined = append(combined, rowB...)
		res.Mapped = append(res.Mapped, combined)

		for i, rem := range res.UnmappedB {
			if cellAt(rem, keyB) == key {
				res.UnmappedB = append(res.UnmappedB[:i], res.UnmappedB[i+1:]...)
				break
			}
		}
	}
	return res, nil
}

// Render joins rows back into delimited text, one line per row.
func Render(rows [][]string, d Delimiter) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, d.Sep())
	}
	return strings.Join(lines, "\n")
}

// ToTable materializes joined rows as a table with positional
// Column_N headers, padding ragged rows so every column exists. The
// result feeds the shared view and export paths.
func ToTable(rows [][]string) *table.Table {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	tbl := table.New(table.DeclaredOrder)
	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("Column_%d", i+1)
	}
	tbl.SetHeader(header)

	for _, row := range rows {
		r := table.NewRow()
		for i, name := range header {
			if i < len(row) {
				r.Set(name, row[i])
			} else {
				r.Set(name, "")
			}
		}
		tbl.Append(r)
	}
	return tbl
}
