// Package sparse provides a minimal CSR matrix used to persist and score
// chunk-term weight matrices. Rows are accessed by index only; callers never
// see the storage layout.
package sparse

import (
	"errors"
	"math"
	"sort"
)

// Vector is a sparse non-negative weight vector keyed by column index.
type Vector map[int]float64

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Normalize scales the vector to unit length. A zero vector is left as is.
func (v Vector) Normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for i, w := range v {
		v[i] = w / n
	}
}

// Matrix is a compressed sparse row matrix. RowPtr has Rows+1 entries;
// row i occupies ColIdx[RowPtr[i]:RowPtr[i+1]] and the matching Values.
type Matrix struct {
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	RowPtr []int     `json:"row_ptr"`
	ColIdx []int     `json:"col_idx"`
	Values []float64 `json:"values"`
}

// NewMatrix builds a CSR matrix from per-row sparse vectors.
func NewMatrix(rows []Vector, cols int) *Matrix {
	m := &Matrix{Rows: len(rows), Cols: cols, RowPtr: make([]int, len(rows)+1)}
	for i, row := range rows {
		// Deterministic column order within a row.
		idxs := make([]int, 0, len(row))
		for col := range row {
			idxs = append(idxs, col)
		}
		sort.Ints(idxs)
		for _, col := range idxs {
			m.ColIdx = append(m.ColIdx, col)
			m.Values = append(m.Values, row[col])
		}
		m.RowPtr[i+1] = len(m.ColIdx)
	}
	return m
}

// Validate checks the structural invariants of the CSR layout.
func (m *Matrix) Validate() error {
	if len(m.RowPtr) != m.Rows+1 {
		return errors.New("sparse: row pointer length mismatch")
	}
	if len(m.ColIdx) != len(m.Values) {
		return errors.New("sparse: column/value length mismatch")
	}
	if m.Rows > 0 && m.RowPtr[m.Rows] != len(m.ColIdx) {
		return errors.New("sparse: row pointer does not cover all entries")
	}
	return nil
}

// RowDot returns the dot product of row i with the query vector.
func (m *Matrix) RowDot(i int, q Vector) float64 {
	sum := 0.0
	for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
		if w, ok := q[m.ColIdx[j]]; ok {
			sum += m.Values[j] * w
		}
	}
	return sum
}

// RowNorm returns the L2 norm of row i.
func (m *Matrix) RowNorm(i int) float64 {
	sum := 0.0
	for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
		sum += m.Values[j] * m.Values[j]
	}
	return math.Sqrt(sum)
}

// CosineSimilarities returns the cosine similarity of the query against
// every row, in row order. A zero query or zero row scores 0.
func (m *Matrix) CosineSimilarities(q Vector) []float64 {
	scores := make([]float64, m.Rows)
	qn := q.Norm()
	if qn == 0 {
		return scores
	}
	for i := 0; i < m.Rows; i++ {
		rn := m.RowNorm(i)
		if rn == 0 {
			continue
		}
		scores[i] = m.RowDot(i, q) / (rn * qn)
	}
	return scores
}
