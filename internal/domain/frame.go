package domain

import "slices"

// Frame is a small column-named table of float64 rows. Single and batch
// requests are both carried as frames so they share one processing path.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// NewFrame builds a frame in RawColumns layout from observations.
func NewFrame(obs ...Observation) Frame {
	rows := make([][]float64, len(obs))
	for i, o := range obs {
		rows[i] = o.Row()
	}
	return Frame{Columns: slices.Clone(RawColumns), Rows: rows}
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Rows)
}

// Index returns the position of col, or -1.
func (f Frame) Index(col string) int {
	return slices.Index(f.Columns, col)
}

// Column copies out the values of col. The second result is false when the
// column does not exist.
func (f Frame) Column(col string) ([]float64, bool) {
	idx := f.Index(col)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Drop returns a copy of the frame without col. Dropping a column that does
// not exist is a no-op.
func (f Frame) Drop(col string) Frame {
	idx := f.Index(col)
	if idx < 0 {
		return f
	}
	out := Frame{
		Columns: slices.Delete(slices.Clone(f.Columns), idx, idx+1),
		Rows:    make([][]float64, len(f.Rows)),
	}
	for i, row := range f.Rows {
		out.Rows[i] = slices.Delete(slices.Clone(row), idx, idx+1)
	}
	return out
}

// Slice returns a frame holding only row i. Row data is shared.
func (f Frame) Slice(i int) Frame {
	return Frame{Columns: f.Columns, Rows: [][]float64{f.Rows[i]}}
}
