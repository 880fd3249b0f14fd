// Package matrix holds the dense MNA system (A, z) that elements stamp
// into, and the interface elements use to do so. Sparse-matrix
// exploitation is out of scope for this core: the system is small and
// dense by construction (§1, Non-goals), so a plain gonum/mat.Dense
// backs it instead of a sparse solver.
package matrix

import "gonum.org/v1/gonum/mat"

// System is the interface every element stamps into: AddElement and
// AddRHS are additive, matching the additive stamp rules in spec §4.1;
// SetRHS is assigning, used only by the voltage-source stamp's z[k] = V
// term.
type System interface {
	AddElement(i, j int, value float64)
	AddRHS(i int, value float64)
	SetRHS(i int, value float64)
}

// CircuitMatrix is the concrete dense (A, z) pair for a D-dimensional
// MNA system, 0-indexed to match network.RowOfNode/RowOfExtraUnknown.
type CircuitMatrix struct {
	Dim int
	A   *mat.Dense
	Z   []float64
}

// New allocates a zeroed D×D system.
func New(dim int) *CircuitMatrix {
	return &CircuitMatrix{
		Dim: dim,
		A:   mat.NewDense(dim, dim, nil),
		Z:   make([]float64, dim),
	}
}

// Clear zeroes A and z so a fresh assembly pass can run.
func (m *CircuitMatrix) Clear() {
	m.A.Zero()
	for i := range m.Z {
		m.Z[i] = 0
	}
}

func (m *CircuitMatrix) AddElement(i, j int, value float64) {
	if i < 0 || j < 0 || i >= m.Dim || j >= m.Dim {
		return
	}
	m.A.Set(i, j, m.A.At(i, j)+value)
}

func (m *CircuitMatrix) AddRHS(i int, value float64) {
	if i < 0 || i >= m.Dim {
		return
	}
	m.Z[i] += value
}

func (m *CircuitMatrix) SetRHS(i int, value float64) {
	if i < 0 || i >= m.Dim {
		return
	}
	m.Z[i] = value
}

// Residual computes r = A·x - z.
func (m *CircuitMatrix) Residual(x []float64) []float64 {
	xv := mat.NewVecDense(m.Dim, x)
	var av mat.VecDense
	av.MulVec(m.A, xv)

	r := make([]float64, m.Dim)
	for i := 0; i < m.Dim; i++ {
		r[i] = av.AtVec(i) - m.Z[i]
	}
	return r
}
