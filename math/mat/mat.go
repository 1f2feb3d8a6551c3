/*mat contains the small dense matrix routines used to rotate shapes: only
construction, transposes, and application to 3-vectors.
*/
package mat

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix represents a matrix of float64 values stored in row-major order.
type Matrix struct {
	Vals []float64
	Width, Height int
}

// NewMatrix creates a matrix with the specified values and dimensions.
func NewMatrix(vals []float64, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// Transpose returns the transpose of m. For a rotation matrix this is its
// inverse.
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(make([]float64, len(m.Vals)), m.Height, m.Width)
	for i := 0; i < m.Height; i++ {
		for j := 0; j < m.Width; j++ {
			out.Vals[j*m.Height+i] = m.Vals[i*m.Width+j]
		}
	}
	return out
}

// Apply returns m * v. m must be 3 x 3.
func (m *Matrix) Apply(v r3.Vec) r3.Vec {
	if m.Width != 3 || m.Height != 3 {
		panic("Apply requires a 3 x 3 matrix.")
	}
	return r3.Vec{
		X: m.Vals[0]*v.X + m.Vals[1]*v.Y + m.Vals[2]*v.Z,
		Y: m.Vals[3]*v.X + m.Vals[4]*v.Y + m.Vals[5]*v.Z,
		Z: m.Vals[6]*v.X + m.Vals[7]*v.Y + m.Vals[8]*v.Z,
	}
}
