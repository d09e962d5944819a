package domain

// Row is one record of a decoded tabular file: column name → cell value.
// Blank cells are the empty string, never absent, for columns the file
// declares. Column order lives on the Dataset, not the row.
type Row map[string]string

// Dataset is a decoded tabular file: the header's column order plus the
// data rows. Every row produced by one decode shares the same column set.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// HasColumn reports whether the dataset's header declares the column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}
