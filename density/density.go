/*package density contains the density models used to fill geometry sectors.

Models convert a straight step through a sector into a column depth (mass per
unit area), which is what interaction lengths are measured in. Both models
have closed form column depths, so no numerical integration is needed.
*/
package density

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/strata/geometry"
)

// ErrModel is returned when a model is constructed with invalid parameters.
var ErrModel = errors.New("density: invalid model")

// smallExponent is the step exponent below which Gradient.ColumnDepth falls
// back to the uniform approximation.
const smallExponent = 1e-8

var (
	_ geometry.DensityModel = Uniform(0)
	_ geometry.DensityModel = &Gradient{}
)

// Uniform is a constant density.
type Uniform float64

// NewUniform returns a uniform model. rho must be positive.
func NewUniform(rho float64) (Uniform, error) {
	if !(rho > 0) || math.IsInf(rho, 0) {
		return 0, fmt.Errorf("%w: density must be positive, but is %g",
			ErrModel, rho)
	}
	return Uniform(rho), nil
}

func (u Uniform) Value(r3.Vec) float64 { return float64(u) }

func (u Uniform) ColumnDepth(_, _ r3.Vec, length float64) float64 {
	return float64(u) * length
}

// Gradient is a density which falls off exponentially along Axis:
//
//     rho(r) = Density * exp(-(r - Origin).Axis / Scale)
//
// A Gradient along +z with Origin at sea level is an isothermal atmosphere.
type Gradient struct {
	Density float64
	Scale float64
	Origin r3.Vec
	// Axis is a unit vector.
	Axis r3.Vec
}

// NewGradient returns a model with density rho at origin which falls by a
// factor of e every scale length along axis. axis is normalized.
func NewGradient(rho, scale float64, origin, axis r3.Vec) (*Gradient, error) {
	switch {
	case !(rho > 0) || math.IsInf(rho, 0):
		return nil, fmt.Errorf("%w: density must be positive, but is %g",
			ErrModel, rho)
	case !(scale > 0) || math.IsInf(scale, 0):
		return nil, fmt.Errorf("%w: scale must be positive, but is %g",
			ErrModel, scale)
	case r3.Norm(axis) == 0:
		return nil, fmt.Errorf("%w: gradient axis is zero", ErrModel)
	}
	return &Gradient{
		Density: rho, Scale: scale, Origin: origin, Axis: r3.Unit(axis),
	}, nil
}

// NewVerticalGradient returns a gradient along +z with origin at z = 0.
func NewVerticalGradient(rho, scale float64) (*Gradient, error) {
	return NewGradient(rho, scale, r3.Vec{}, r3.Vec{Z: 1})
}

func (g *Gradient) height(position r3.Vec) float64 {
	return r3.Dot(r3.Sub(position, g.Origin), g.Axis)
}

func (g *Gradient) Value(position r3.Vec) float64 {
	return g.Density * math.Exp(-g.height(position)/g.Scale)
}

func (g *Gradient) ColumnDepth(
	position, direction r3.Vec, length float64,
) float64 {
	rho0 := g.Value(position)
	c := r3.Dot(direction, g.Axis)
	if c == 0 { return rho0 * length }
	x := length * c / g.Scale
	if math.Abs(x) < smallExponent { return rho0 * length * (1 - x/2) }
	return -rho0 * g.Scale / c * math.Expm1(-x)
}
