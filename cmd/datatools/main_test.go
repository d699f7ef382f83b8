package main

import (
	"reflect"
	"testing"

	"datatools/internal/shape"
	"datatools/internal/table"
)

func TestTallyMap(t *testing.T) {
	got := tallyMap(shape.Tallies{Users: 2, ReportNotes: 1})
	want := map[string]int{"User_Records": 2, "Note_Records": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tallyMap = %v, want %v", got, want)
	}
	if tallyMap(shape.Tallies{}) != nil {
		t.Fatal("empty tallies should map to nil")
	}
}

func resetViewFlags() {
	filterColumn, filterValue = "", ""
	sortColumn = ""
	sortDesc = false
	pageSize = 0
	page = 1
}

func numberedTable(n int) *table.Table {
	tbl := table.New(table.DeclaredOrder)
	tbl.SetHeader([]string{"Name", "N"})
	for i := 0; i < n; i++ {
		r := table.NewRow()
		r.Set("Name", "row")
		r.Set("N", float64(i))
		tbl.Append(r)
	}
	return tbl
}

func TestApplyView_NoFlagsPassesThrough(t *testing.T) {
	resetViewFlags()

	out, err := applyView(numberedTable(3))
	if err != nil {
		t.Fatalf("applyView: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("rows = %d, want 3", out.Len())
	}
	if !reflect.DeepEqual(out.Header(), []string{"Name", "N"}) {
		t.Fatalf("header = %v", out.Header())
	}
}

func TestApplyView_SortDescending(t *testing.T) {
	resetViewFlags()
	sortColumn = "N"
	sortDesc = true
	defer resetViewFlags()

	out, err := applyView(numberedTable(3))
	if err != nil {
		t.Fatalf("applyView: %v", err)
	}
	v, _ := out.Rows()[0].Get("N")
	if v != float64(2) {
		t.Fatalf("first N = %v, want 2", v)
	}
}

func TestApplyView_Pagination(t *testing.T) {
	resetViewFlags()
	pageSize = 50
	page = 2
	defer resetViewFlags()

	out, err := applyView(numberedTable(120))
	if err != nil {
		t.Fatalf("applyView: %v", err)
	}
	if out.Len() != 50 {
		t.Fatalf("rows = %d, want 50", out.Len())
	}
	v, _ := out.Rows()[0].Get("N")
	if v != float64(50) {
		t.Fatalf("first N = %v, want 50", v)
	}
}

func TestApplyView_InvalidPageSize(t *testing.T) {
	resetViewFlags()
	pageSize = 42
	defer resetViewFlags()

	if _, err := applyView(numberedTable(3)); err == nil {
		t.Fatal("want error for invalid page size")
	}
}
