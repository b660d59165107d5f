package table

import "fmt"

// Table is an ordered tab-separated table held fully in memory.
// Row order is semantically significant: the pipeline compares adjacent
// rows, so no operation reorders, filters, or deduplicates rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows (header excluded)
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a named column
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns the values of a named column, one per row
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found (have: %v)", name, t.Header)
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// SetColumn writes a full column of values. An existing column is
// overwritten in place (re-running the pipeline on its own output must not
// grow the table); a new column is appended after the existing ones.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q: %d values for %d rows", name, len(values), len(t.Rows))
	}

	idx, ok := t.ColumnIndex(name)
	if !ok {
		t.Header = append(t.Header, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return nil
	}

	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}
