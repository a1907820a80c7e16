package tensor

import "math/rand"

// Mat is a dense row-major matrix of float64 values.
//
// R and C are the number of rows and columns. Stride is the number of
// elements between the starts of two consecutive rows; for freshly
// allocated matrices it equals C. Scoring math is done in float64
// regardless of the precision a model produces, so that downstream
// probability conversions stay stable.
//
// Mat does not perform any memory safety beyond the checks performed by
// Go's slice types; out-of-range indices will panic.
type Mat struct {
	R, C   int
	Stride int
	Data   []float64
}

// NewMat allocates a zero-initialised matrix with the given dimensions.
func NewMat(r, c int) Mat {
	if r < 0 || c < 0 {
		panic("negative dimension for matrix")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   make([]float64, r*c),
	}
}

// NewMatFromData creates a matrix over existing data.
// It checks that the data length matches r*c.
func NewMatFromData(r, c int, data []float64) Mat {
	if r*c != len(data) {
		panic("data length mismatch")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   data,
	}
}

// FromRows widens per-position float32 logit rows into a float64 matrix.
// Every row must have the same length.
func FromRows(rows [][]float32) (Mat, error) {
	if len(rows) == 0 {
		return Mat{}, nil
	}
	c := len(rows[0])
	m := NewMat(len(rows), c)
	for i, row := range rows {
		if len(row) != c {
			return Mat{}, errRaggedRows
		}
		dst := m.Data[i*m.Stride : i*m.Stride+c]
		for j, v := range row {
			dst[j] = float64(v)
		}
	}
	return m, nil
}

// Row returns a view of the i-th row. Modifications to the returned slice
// update the underlying matrix values.
func (m *Mat) Row(i int) []float64 {
	if i < 0 || i >= m.R {
		panic("row index out of range")
	}
	start := i * m.Stride
	return m.Data[start : start+m.C]
}

// SliceRows returns a view of the rows from index `from` to the end.
// The returned matrix shares the underlying data.
func (m *Mat) SliceRows(from int) Mat {
	if from < 0 || from > m.R {
		panic("row slice out of range")
	}
	return Mat{
		R:      m.R - from,
		C:      m.C,
		Stride: m.Stride,
		Data:   m.Data[from*m.Stride:],
	}
}

// FillRand fills the matrix with reproducible pseudo-random values in a
// small range around zero. The seed controls the sequence; identical seeds
// produce identical matrices.
func FillRand(m *Mat, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = (rng.Float64() - 0.5) * 0.02
	}
}

var errRaggedRows = matError("logit rows have unequal lengths")

type matError string

func (e matError) Error() string { return string(e) }
