package dataset

// Table is an immutable parsed tabular dataset: an ordered set of named
// columns plus rows keyed by column name. Empty string values represent nulls.
type Table struct {
	Headers []string
	Rows    []map[string]string
	Source  Source
}

// Source records where a table came from and how it was decoded.
type Source struct {
	Name      string
	SizeBytes int64
	Encoding  string
	Delimiter string
	Checksum  string
}

// New builds a Table from pre-parsed headers and rows.
func New(headers []string, rows []map[string]string) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.Headers) }

// Column returns the raw values of one column in row order. Missing cells
// come back as empty strings so every column has RowCount values.
func (t *Table) Column(name string) []string {
	vals := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		vals[i] = row[name]
	}
	return vals
}

// HasColumn reports whether the table defines the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// SampleRows returns up to n rows copied from the head of the table.
func (t *Table) SampleRows(n int) []map[string]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([]map[string]string, n)
	for i := 0; i < n; i++ {
		cp := make(map[string]string, len(t.Rows[i]))
		for k, v := range t.Rows[i] {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
