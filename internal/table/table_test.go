package table

import (
	"reflect"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Header: []string{"ID", "Narrative"},
		Rows: [][]string{
			{"1", "A dog slept."},
			{"2", "A cat helped."},
		},
	}
}

func TestColumn(t *testing.T) {
	tbl := sampleTable()

	values, err := tbl.Column("Narrative")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}

	want := []string{"A dog slept.", "A cat helped."}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Column = %v, want %v", values, want)
	}
}

func TestColumn_Missing(t *testing.T) {
	tbl := sampleTable()

	if _, err := tbl.Column("Nope"); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestSetColumn_Append(t *testing.T) {
	tbl := sampleTable()

	if err := tbl.SetColumn("Annotation", []string{"a1", "a2"}); err != nil {
		t.Fatalf("SetColumn failed: %v", err)
	}

	wantHeader := []string{"ID", "Narrative", "Annotation"}
	if !reflect.DeepEqual(tbl.Header, wantHeader) {
		t.Errorf("Header = %v, want %v", tbl.Header, wantHeader)
	}
	if tbl.Rows[0][2] != "a1" || tbl.Rows[1][2] != "a2" {
		t.Errorf("unexpected rows: %v", tbl.Rows)
	}
}

func TestSetColumn_OverwriteInPlace(t *testing.T) {
	tbl := sampleTable()

	if err := tbl.SetColumn("Annotation", []string{"old1", "old2"}); err != nil {
		t.Fatalf("SetColumn failed: %v", err)
	}
	if err := tbl.SetColumn("Annotation", []string{"new1", "new2"}); err != nil {
		t.Fatalf("SetColumn failed: %v", err)
	}

	// Re-writing must not grow the table
	if len(tbl.Header) != 3 {
		t.Errorf("header grew on overwrite: %v", tbl.Header)
	}
	if tbl.Rows[0][2] != "new1" || tbl.Rows[1][2] != "new2" {
		t.Errorf("unexpected rows: %v", tbl.Rows)
	}
}

func TestSetColumn_LengthMismatch(t *testing.T) {
	tbl := sampleTable()

	if err := tbl.SetColumn("Annotation", []string{"only one"}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}
