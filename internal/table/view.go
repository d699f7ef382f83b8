package table

import (
	"fmt"
	"sort"
	"strings"
)

// PageSizes is the set of selectable page sizes.
var PageSizes = []int{50, 100, 200, 500, 1000}

// DefaultPageSize is used until the caller picks another size.
const DefaultPageSize = 100

// SortDirection orders a sorted view.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// View applies filter, sort and pagination over a materialized table.
//
// Composition rules:
//   - Sort operates over the currently filtered set when a filter is
//     active.
//   - Clearing the filter discards any sort built on top of it; filter
//     and sort are otherwise independently resettable.
//
// The view never mutates the underlying table.
type View struct {
	table *Table

	filtered []*Row // nil when no filter applied
	sorted   []*Row // nil when no sort applied

	pageSize int
	page     int // 1-based, clamped
}

// NewView returns a view over t with the default page size.
func NewView(t *Table) *View {
	return &View{table: t, pageSize: DefaultPageSize, page: 1}
}

// Filter retains rows whose stringified cell in column contains value,
// case-insensitively. An empty column or value is invalid input: the
// filter is not applied and an error is returned.
func (v *View) Filter(column, value string) error {
	if strings.TrimSpace(column) == "" || strings.TrimSpace(value) == "" {
		return fmt.Errorf("table: filter needs a column and a value")
	}
	needle := strings.ToLower(strings.TrimSpace(value))
	var kept []*Row
	for _, r := range v.table.Rows() {
		cell, _ := r.Get(column)
		if strings.Contains(strings.ToLower(CellString(cell)), needle) {
			kept = append(kept, r)
		}
	}
	v.filtered = kept
	v.sorted = nil // sort was defined over the previous view
	v.page = 1
	return nil
}

// ClearFilter removes the filter and any sort built on top of it.
func (v *View) ClearFilter() {
	v.filtered = nil
	v.sorted = nil
	v.page = 1
}

// Sort orders the current (possibly filtered) view by column. When both
// cells are numbers they compare numerically, otherwise their
// stringified forms compare case-insensitively; absent cells compare as
// the empty string. The sort is stable: equal keys keep their original
// relative order.
func (v *View) Sort(column string, dir SortDirection) error {
	if strings.TrimSpace(column) == "" {
		return fmt.Errorf("table: sort needs a column")
	}
	base := v.table.Rows()
	if v.filtered != nil {
		base = v.filtered
	}
	out := make([]*Row, len(base))
	copy(out, base)

	sort.SliceStable(out, func(i, j int) bool {
		c := compareCells(cellOf(out[i], column), cellOf(out[j], column))
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})

	v.sorted = out
	v.page = 1
	return nil
}

// ClearSort removes the sort, keeping any active filter.
func (v *View) ClearSort() {
	v.sorted = nil
	v.page = 1
}

func cellOf(r *Row, column string) any {
	cell, _ := r.Get(column)
	return cell
}

// compareCells returns -1/0/1. Numeric when both sides are numbers,
// else case-insensitive lexicographic over stringified cells.
func compareCells(a, b any) int {
	an, aok := cellNumber(a)
	bn, bok := cellNumber(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(CellString(a)), strings.ToLower(CellString(b)))
}

// Rows returns the rows of the current view: sorted if a sort is
// active, else filtered, else the full table.
func (v *View) Rows() []*Row {
	if v.sorted != nil {
		return v.sorted
	}
	if v.filtered != nil {
		return v.filtered
	}
	return v.table.Rows()
}

// RecordCount returns the current view's row count excluding summary
// rows.
func (v *View) RecordCount() int {
	n := 0
	for _, r := range v.Rows() {
		if !r.IsSummary() {
			n++
		}
	}
	return n
}

// SetPageSize switches to one of the enumerated page sizes and resets
// to the first page.
func (v *View) SetPageSize(size int) error {
	for _, s := range PageSizes {
		if s == size {
			v.pageSize = size
			v.page = 1
			return nil
		}
	}
	return fmt.Errorf("table: unsupported page size %d", size)
}

// PageSize returns the active page size.
func (v *View) PageSize() int { return v.pageSize }

// TotalPages returns ceil(rows/pageSize), never less than 1.
func (v *View) TotalPages() int {
	n := len(v.Rows())
	pages := (n + v.pageSize - 1) / v.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// CurrentPage returns the clamped 1-based page number.
func (v *View) CurrentPage() int {
	return v.clamp(v.page)
}

func (v *View) clamp(p int) int {
	if p < 1 {
		return 1
	}
	if max := v.TotalPages(); p > max {
		return max
	}
	return p
}

// First, Prev, Next and Last are saturating moves: past a boundary they
// are no-ops.
func (v *View) First() { v.page = 1 }

func (v *View) Prev() { v.page = v.clamp(v.CurrentPage() - 1) }

func (v *View) Next() { v.page = v.clamp(v.CurrentPage() + 1) }

func (v *View) Last() { v.page = v.TotalPages() }

// Page returns the current page's row slice plus its 1-based start and
// inclusive end record positions (0 and 0 when the view is empty).
func (v *View) Page() (rows []*Row, start, end int) {
	all := v.Rows()
	if len(all) == 0 {
		return nil, 0, 0
	}
	p := v.CurrentPage()
	lo := (p - 1) * v.pageSize
	hi := lo + v.pageSize
	if hi > len(all) {
		hi = len(all)
	}
	return all[lo:hi], lo + 1, hi
}
