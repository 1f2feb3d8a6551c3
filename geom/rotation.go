package geom

import (
	. "math"

	"github.com/phil-mansfield/strata/math/mat"
)

// EulerMatrix creates a 3D rotation matrix based off the Euler angles phi,
// theta, and psi. These represent three consecutive rotations around the x,
// y, and z axes, respectively.
func EulerMatrix(phi, theta, psi float64) *mat.Matrix {
	A := []float64{
		Cos(theta) * Cos(psi),
		Cos(phi)*Sin(psi) + Sin(phi)*Sin(theta)*Cos(psi),
		Sin(phi)*Sin(psi) - Cos(phi)*Sin(theta)*Cos(psi),
		-Cos(theta) * Sin(psi),
		Cos(phi)*Cos(psi) - Sin(phi)*Sin(theta)*Sin(psi),
		Sin(phi)*Cos(psi) + Cos(phi)*Sin(theta)*Sin(psi),
		Sin(theta),
		-Sin(phi) * Cos(theta),
		Cos(phi) * Cos(theta),
	}

	return mat.NewMatrix(A, 3, 3)
}
