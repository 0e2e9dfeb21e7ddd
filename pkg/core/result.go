package core

// Row is one result row. Cells are nil, int64, float64, string or []byte.
type Row []any

// ResultSet holds the columns and rows produced by a single statement.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Result is the canonical outcome of executing SQL text.
//
// When Error is set, Columns and Rows are empty. When Columns is empty,
// Rows is empty. Every row has exactly len(Columns) cells.
type Result struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// EmptyResult returns a successful result with nothing to show.
func EmptyResult() Result {
	return Result{Columns: []string{}, Rows: []Row{}}
}

// ErrorResult returns a failed result carrying msg.
func ErrorResult(msg string) Result {
	r := EmptyResult()
	r.Error = msg
	return r
}

// ResultFromSet builds a successful result from a result set.
// Rows whose width does not match the column count are padded or truncated.
func ResultFromSet(set ResultSet) Result {
	if len(set.Columns) == 0 {
		return EmptyResult()
	}

	r := Result{
		Columns: append([]string{}, set.Columns...),
		Rows:    make([]Row, 0, len(set.Rows)),
	}
	for _, row := range set.Rows {
		cells := make(Row, len(r.Columns))
		copy(cells, row)
		r.Rows = append(r.Rows, cells)
	}
	return r
}

// HasError reports whether the result carries an error.
func (r Result) HasError() bool {
	return r.Error != ""
}

// IsEmpty reports whether the result has no columns to display.
func (r Result) IsEmpty() bool {
	return len(r.Columns) == 0
}
