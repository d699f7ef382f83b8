package table

import "sort"

// HeaderOrder selects how a table derives its canonical header.
type HeaderOrder int

const (
	// SortedUnion orders the header as the sorted union of all row
	// keys. This is the canonical policy for sniffed/generic tables.
	SortedUnion HeaderOrder = iota
	// DeclaredOrder keeps the header exactly as declared via
	// SetHeader, appending unseen row keys at the end in first-seen
	// order. Fixed-layout projections use this.
	DeclaredOrder
)

// Table is an ordered sequence of rows plus a derived header.
type Table struct {
	rows  []*Row
	order HeaderOrder

	// ordered set: sequence + membership, so header derivation is
	// deterministic regardless of row iteration patterns.
	headerSeq []string
	headerSet map[string]struct{}
}

// New returns an empty table with the given header policy.
func New(order HeaderOrder) *Table {
	return &Table{order: order, headerSet: make(map[string]struct{})}
}

// SetHeader declares the leading header columns for DeclaredOrder
// tables. Columns already present are not duplicated.
func (t *Table) SetHeader(cols []string) {
	for _, c := range cols {
		t.add(c)
	}
}

// Append adds a row and folds its keys into the header set.
func (t *Table) Append(r *Row) {
	if r == nil {
		return
	}
	t.rows = append(t.rows, r)
	for _, k := range r.keys {
		t.add(k)
	}
}

func (t *Table) add(col string) {
	if _, ok := t.headerSet[col]; ok {
		return
	}
	t.headerSet[col] = struct{}{}
	t.headerSeq = append(t.headerSeq, col)
}

// Header returns the canonical ordered header.
func (t *Table) Header() []string {
	out := make([]string, len(t.headerSeq))
	copy(out, t.headerSeq)
	if t.order == SortedUnion {
		sort.Strings(out)
	}
	return out
}

// Rows returns the underlying row sequence (summary row included).
func (t *Table) Rows() []*Row {
	return t.rows
}

// Len returns the total row count, summary row included.
func (t *Table) Len() int { return len(t.rows) }

// RecordCount returns the row count excluding summary rows. This is the
// figure shown in record statistics; the summary row still exports.
func (t *Table) RecordCount() int {
	n := 0
	for _, r := range t.rows {
		if !r.IsSummary() {
			n++
		}
	}
	return n
}
