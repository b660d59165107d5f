package table

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Load reads a tab-separated table from disk. The first record is the
// header; every data row must have the same number of fields.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = '\t'

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("parse table: %s is empty (no header row)", path)
	}

	return &Table{
		Header: records[0],
		Rows:   records[1:],
	}, nil
}

// Save writes the table back as TSV, truncating the destination. The write
// is not atomic: a crash mid-write can corrupt the file, matching the
// single-shot batch usage this tool is built for.
func Save(path string, t *Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close table: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}
