package dataset

import (
	"fmt"
)

// Row maps column names to string values. All cell values are carried
// as strings; typed interpretation happens at the database boundary.
type Row map[string]string

// Snapshot is a fully materialized capture of authoritative rows,
// keyed by a designated natural-key column. It is built once and not
// modified after that.
type Snapshot struct {
	// Columns is the ordered column list shared by every row.
	Columns []string
	// KeyColumn is the natural-key column name.
	KeyColumn string
	// Rows are the captured rows in source order.
	Rows []Row
}

// New creates an empty snapshot and validates that the key column is
// among the columns. Key uniqueness across rows is not checked here;
// duplicate keys make reconciliation outcomes for those rows undefined.
func New(columns []string, keyColumn string) (*Snapshot, error) {
	found := false
	for _, c := range columns {
		if c == keyColumn {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("key column %q not present in columns %v", keyColumn, columns)
	}
	return &Snapshot{Columns: columns, KeyColumn: keyColumn}, nil
}

// Append adds a row from positional values aligned with Columns.
func (s *Snapshot) Append(values []string) error {
	if len(values) != len(s.Columns) {
		return fmt.Errorf("row has %d values, expected %d", len(values), len(s.Columns))
	}
	row := make(Row, len(s.Columns))
	for i, c := range s.Columns {
		row[c] = values[i]
	}
	s.Rows = append(s.Rows, row)
	return nil
}

// Key returns the natural-key value of a row.
func (s *Snapshot) Key(row Row) string {
	return row[s.KeyColumn]
}

// Keys returns every row's key value in snapshot order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		keys = append(keys, s.Key(row))
	}
	return keys
}

// KeySet returns the snapshot's full key set for membership tests.
func (s *Snapshot) KeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Rows))
	for _, row := range s.Rows {
		set[s.Key(row)] = struct{}{}
	}
	return set
}

// ValueColumns returns the non-key columns in order.
func (s *Snapshot) ValueColumns() []string {
	cols := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c != s.KeyColumn {
			cols = append(cols, c)
		}
	}
	return cols
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Rows)
}
