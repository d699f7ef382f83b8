package table

import (
	"reflect"
	"testing"
)

// rowOf builds a row from alternating key/value pairs, preserving order.
func rowOf(t *testing.T, kv ...any) *Row {
	t.Helper()
	if len(kv)%2 != 0 {
		t.Fatalf("rowOf: odd kv length %d", len(kv))
	}
	r := NewRow()
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func TestRow_SetPreservesInsertionOrder(t *testing.T) {
	r := rowOf(t, "b", 1, "a", 2, "c", 3)
	if got, want := r.Keys(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	// Overwriting must not move the column.
	r.Set("a", 9)
	if got, want := r.Keys(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys after overwrite = %v, want %v", got, want)
	}
	v, ok := r.Get("a")
	if !ok || v != 9 {
		t.Fatalf("Get(a) = %v, %v; want 9, true", v, ok)
	}
}

func TestTable_SortedUnionHeader(t *testing.T) {
	tbl := New(SortedUnion)
	tbl.Append(rowOf(t, "zeta", 1, "alpha", 2))
	tbl.Append(rowOf(t, "mid", 3, "alpha", 4))

	want := []string{"alpha", "mid", "zeta"}
	if got := tbl.Header(); !reflect.DeepEqual(got, want) {
		t.Fatalf("header = %v, want %v", got, want)
	}
}

func TestTable_DeclaredOrderHeaderAppendsUnseen(t *testing.T) {
	tbl := New(DeclaredOrder)
	tbl.SetHeader([]string{"User_Path", "Email"})
	tbl.Append(rowOf(t, "Email", "a@b.com", "Role", "admin"))

	want := []string{"User_Path", "Email", "Role"}
	if got := tbl.Header(); !reflect.DeepEqual(got, want) {
		t.Fatalf("header = %v, want %v", got, want)
	}
}

func TestTable_RecordCountExcludesSummary(t *testing.T) {
	tbl := New(SortedUnion)
	tbl.Append(rowOf(t, "Record_Index", 1, "Total_Signal_Poles", 5))
	tbl.Append(rowOf(t, "Record_Index", 2, "Total_Signal_Poles", 10))
	tbl.Append(rowOf(t, "Record_Index", SummaryIndex, "Total_Signal_Poles", 15))

	if got := tbl.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}
	if got := tbl.RecordCount(); got != 2 {
		t.Fatalf("RecordCount = %d, want 2", got)
	}
}

func TestCellString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{false, "false"},
		{float64(15), "15"},
		{float64(1.5), "1.5"},
		{int(7), "7"},
	}
	for _, c := range cases {
		if got := CellString(c.in); got != c.want {
			t.Errorf("CellString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestView_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	tbl := New(SortedUnion)
	tbl.Append(rowOf(t, "Email", "A@Example.com"))
	tbl.Append(rowOf(t, "Email", "b@other.net"))
	tbl.Append(rowOf(t, "Email", "c@example.org"))

	v := NewView(tbl)
	if err := v.Filter("Email", "EXAMPLE"); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if got := len(v.Rows()); got != 2 {
		t.Fatalf("filtered rows = %d, want 2", got)
	}
}

func TestView_FilterRejectsEmptyInput(t *testing.T) {
	v := NewView(New(SortedUnion))
	if err := v.Filter("", "x"); err == nil {
		t.Fatal("Filter with empty column: want error")
	}
	if err := v.Filter("Email", "  "); err == nil {
		t.Fatal("Filter with blank value: want error")
	}
}

func TestView_SortNumericThenLexicographic(t *testing.T) {
	tbl := New(SortedUnion)
	tbl.Append(rowOf(t, "n", float64(10), "s", "b"))
	tbl.Append(rowOf(t, "n", float64(2), "s", "A"))
	tbl.Append(rowOf(t, "n", float64(2), "s", "c"))

	v := NewView(tbl)
	if err := v.Sort("n", Ascending); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	got := make([]float64, 0, 3)
	for _, r := range v.Rows() {
		n, _ := r.Get("n")
		got = append(got, n.(float64))
	}
	if want := []float64{2, 2, 10}; !reflect.DeepEqual(got, want) {
		t.Fatalf("numeric sort = %v, want %v", got, want)
	}

	// Stability: the two n=2 rows keep their original relative order.
	first, _ := v.Rows()[0].Get("s")
	second, _ := v.Rows()[1].Get("s")
	if first != "A" || second != "c" {
		t.Fatalf("ties reordered: got %v then %v", first, second)
	}

	if err := v.Sort("s", Descending); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	top, _ := v.Rows()[0].Get("s")
	if top != "c" {
		t.Fatalf("desc lexicographic top = %v, want c", top)
	}
}

func TestView_SortOperatesOverFilteredSet(t *testing.T) {
	tbl := New(SortedUnion)
	tbl.Append(rowOf(t, "k", "keep", "n", float64(3)))
	tbl.Append(rowOf(t, "k", "drop", "n", float64(1)))
	tbl.Append(rowOf(t, "k", "keep", "n", float64(2)))

	v := NewView(tbl)
	if err := v.Filter("k", "keep"); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if err := v.Sort("n", Ascending); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if got := len(v.Rows()); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	n0, _ := v.Rows()[0].Get("n")
	if n0 != float64(2) {
		t.Fatalf("first sorted row n = %v, want 2", n0)
	}

	// Clearing filter discards the sort built on top of it.
	v.ClearFilter()
	if got := len(v.Rows()); got != 3 {
		t.Fatalf("rows after clear = %d, want 3", got)
	}
	k0, _ := v.Rows()[0].Get("k")
	if k0 != "keep" {
		t.Fatalf("row order after clear = %v, want original", k0)
	}
}

func TestView_PaginationBoundaries(t *testing.T) {
	tbl := New(SortedUnion)
	for i := 0; i < 250; i++ {
		tbl.Append(rowOf(t, "i", i))
	}

	v := NewView(tbl)
	if got := v.TotalPages(); got != 3 {
		t.Fatalf("TotalPages = %d, want 3", got)
	}

	// First from page 1 stays at page 1.
	v.First()
	if got := v.CurrentPage(); got != 1 {
		t.Fatalf("page after First = %d, want 1", got)
	}
	v.Prev()
	if got := v.CurrentPage(); got != 1 {
		t.Fatalf("page after Prev at start = %d, want 1", got)
	}

	v.Last()
	if got := v.CurrentPage(); got != 3 {
		t.Fatalf("page after Last = %d, want 3", got)
	}
	// Next from the last page stays there.
	v.Next()
	if got := v.CurrentPage(); got != 3 {
		t.Fatalf("page after Next at end = %d, want 3", got)
	}

	rows, start, end := v.Page()
	if len(rows) != 50 || start != 201 || end != 250 {
		t.Fatalf("last page = %d rows [%d..%d], want 50 rows [201..250]", len(rows), start, end)
	}
}

func TestView_SetPageSizeValidation(t *testing.T) {
	v := NewView(New(SortedUnion))
	if err := v.SetPageSize(500); err != nil {
		t.Fatalf("SetPageSize(500): %v", err)
	}
	if err := v.SetPageSize(123); err == nil {
		t.Fatal("SetPageSize(123): want error")
	}
	if got := v.PageSize(); got != 500 {
		t.Fatalf("page size = %d, want 500 preserved", got)
	}
}

func TestBatchOutcome_Summary(t *testing.T) {
	var b BatchOutcome
	b.Record()
	b.Record()
	if got := b.Summary(); got != "processed 2 records" {
		t.Fatalf("Summary = %q", got)
	}
	b.Fail(5, errFake)
	if got := b.Summary(); got != "processed 2 records, 1 errors" {
		t.Fatalf("Summary = %q", got)
	}
	if b.Errors[0].Index != 5 {
		t.Fatalf("error index = %d, want 5", b.Errors[0].Index)
	}
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "fake" }
