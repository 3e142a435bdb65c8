package parser

import (
	"reflect"
	"testing"
)

func TestIsTableHeader(t *testing.T) {
	params := DefaultTableParams()
	tests := []struct {
		row      []string
		expected bool
	}{
		{[]string{"S.No", "Name", "Plot", "Area"}, true},
		{[]string{"Plot", "Area"}, false},
		{[]string{"S.No", "Name", "", ""}, false},
		{[]string{"SNO", "ALLOTTEE NAME", "PLOT"}, true},
		{[]string{"Note", "Surname", "Remarks"}, true}, // substring matching is intentional
		{[]string{"Name", "Plot", "Area"}, false},
		{[]string{"No", "Plot", "Area"}, false},
		{[]string{"", "", ""}, false},
		{nil, false},
	}

	for _, tt := range tests {
		result := IsTableHeader(tt.row, params)
		if result != tt.expected {
			t.Errorf("IsTableHeader(%q) = %v, expected %v", tt.row, result, tt.expected)
		}
	}
}

func TestHeaderEntry(t *testing.T) {
	tests := []struct {
		row   []string
		key   string
		value string
		ok    bool
	}{
		{[]string{"Project", "Riverside", "", ""}, "Project", "Riverside", true},
		{[]string{"", "Date", "", "05-03-2024"}, "Date", "05-03-2024", true},
		{[]string{"Project"}, "", "", false},
		{[]string{"a", "b", "c"}, "", "", false},
		{[]string{"", ""}, "", "", false},
	}

	for _, tt := range tests {
		key, value, ok := HeaderEntry(tt.row)
		if key != tt.key || value != tt.value || ok != tt.ok {
			t.Errorf("HeaderEntry(%q) = (%q, %q, %v), expected (%q, %q, %v)",
				tt.row, key, value, ok, tt.key, tt.value, tt.ok)
		}
	}
}

func TestHeaderEntryExcludesTableHeaders(t *testing.T) {
	rows := [][]string{
		{"S.No", "Name", "Plot No"},
		{"No", "Name", ""},
		{"Name No", "x", "y"},
	}
	params := DefaultTableParams()
	for _, row := range rows {
		_, _, isEntry := HeaderEntry(row)
		if isEntry && IsTableHeader(row, params) {
			t.Errorf("row %q classified as both header entry and table header", row)
		}
	}
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		starts   []int
		total    int
		expected []Block
	}{
		{[]int{3, 8}, 12, []Block{{3, 8}, {8, 12}}},
		{[]int{0}, 5, []Block{{0, 5}}},
		{nil, 5, []Block{}},
		{[]int{1, 2, 3}, 4, []Block{{1, 2}, {2, 3}, {3, 4}}},
	}

	for _, tt := range tests {
		result := Blocks(tt.starts, tt.total)
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("Blocks(%v, %d) = %v, expected %v", tt.starts, tt.total, result, tt.expected)
		}
	}
}

func TestSegment(t *testing.T) {
	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"", "", "", ""}
	}
	rows[0] = []string{"Project", "Riverside", "", ""}
	rows[1] = []string{"Layout", "Phase 2", "", ""}
	rows[3] = []string{"S.No", "Name", "Plot", "Area"}
	rows[4] = []string{"1", "Arjun", "P-1", "200"}
	rows[5] = []string{"Ward", "North", "", ""}
	rows[8] = []string{"Sl No", "Allottee Name", "Plot", ""}
	rows[9] = []string{"Remarks", "none", "", ""}

	seg := Segment(rows, DefaultTableParams(), HeaderScopeOutside)

	expectedBlocks := []Block{{3, 8}, {8, 12}}
	if !reflect.DeepEqual(seg.Blocks, expectedBlocks) {
		t.Errorf("Expected blocks %v, got %v", expectedBlocks, seg.Blocks)
	}
	if seg.Header.Len() != 2 {
		t.Fatalf("Expected 2 header entries, got %v", seg.Header.Map())
	}
	if v, _ := seg.Header.Get("Layout"); v != "Phase 2" {
		t.Errorf("Expected Layout = Phase 2, got %q", v)
	}
	if _, ok := seg.Header.Get("Ward"); ok {
		t.Error("Row inside a block must not become a header entry")
	}
}

func TestSegmentHeaderScopeAll(t *testing.T) {
	rows := [][]string{
		{"Project", "Riverside", ""},
		{"S.No", "Name", "Plot No"},
		{"2", "", "P-102"},
		{"Project", "Lakeside", ""},
	}
	seg := Segment(rows, DefaultTableParams(), HeaderScopeAll)
	if v, _ := seg.Header.Get("Project"); v != "Lakeside" {
		t.Errorf("Expected last write to win, got %q", v)
	}
	if v, _ := seg.Header.Get("2"); v != "P-102" {
		t.Errorf("Expected data row collected as header entry, got %q", v)
	}
	if got := seg.Header.List()[0].Name; got != "Project" {
		t.Errorf("Expected overwritten key to keep its first position, got %q first", got)
	}
}

func TestSegmentTwoCellTableHeader(t *testing.T) {
	rows := [][]string{
		{"Project", "Riverside"},
		{"Name", "Plot No"},
		{"Arjun", "P-101"},
	}
	params := DefaultTableParams()
	params.MinNonemptyCells = 2

	for _, scope := range []HeaderScope{"", HeaderScopeOutside} {
		seg := Segment(rows, params, scope)
		if !reflect.DeepEqual(seg.Blocks, []Block{{1, 3}}) {
			t.Errorf("scope %q: expected one block at row 1, got %v", scope, seg.Blocks)
		}
		if seg.Header.Len() != 1 {
			t.Errorf("scope %q: expected only the Project entry, got %v", scope, seg.Header.Map())
		}
		if _, ok := seg.Header.Get("Name"); ok {
			t.Errorf("scope %q: table header row must not become a header entry", scope)
		}
	}

	seg := Segment(rows, params, HeaderScopeAll)
	if v, _ := seg.Header.Get("Arjun"); v != "P-101" {
		t.Errorf("Expected data row collected under HeaderScopeAll, got %v", seg.Header.Map())
	}
}

func TestSegmentWithoutTables(t *testing.T) {
	rows := [][]string{
		{"Project", "Riverside"},
		{"Plot", "Area"},
		{"Project", "Hillside"},
	}

	seg := Segment(rows, DefaultTableParams(), HeaderScopeOutside)
	if len(seg.Blocks) != 0 {
		t.Errorf("Expected no blocks, got %v", seg.Blocks)
	}
	if v, _ := seg.Header.Get("Project"); v != "Hillside" {
		t.Errorf("Expected Project = Hillside, got %q", v)
	}
	if seg.Header.Len() != 2 {
		t.Errorf("Expected 2 header entries, got %d", seg.Header.Len())
	}
}

func TestParseHeaderScope(t *testing.T) {
	tests := []struct {
		input    string
		expected HeaderScope
		ok       bool
	}{
		{"", HeaderScopeOutside, true},
		{"outside", HeaderScopeOutside, true},
		{" ALL ", HeaderScopeAll, true},
		{"inside", "", false},
	}

	for _, tt := range tests {
		result, ok := ParseHeaderScope(tt.input)
		if result != tt.expected || ok != tt.ok {
			t.Errorf("ParseHeaderScope(%q) = (%q, %v), expected (%q, %v)", tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}
