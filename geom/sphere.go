package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is a sphere. (Duh!)
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// NewSphere returns a sphere with the given center and radius. The radius
// must be positive.
func NewSphere(center r3.Vec, radius float64) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf(
			"%w: sphere radius must be positive and finite, but is %g",
			ErrShape, radius,
		)
	}
	return &Sphere{Center: center, Radius: radius}, nil
}

// Distance computes the distance to the sphere's surface using the half chord
// between the two intersection points of the ray's line with the sphere.
func (s *Sphere) Distance(position, direction r3.Vec) (float64, bool) {
	v := r3.Sub(s.Center, position)
	vu := r3.Dot(v, direction)
	h2 := r3.Norm2(v) - vu*vu
	r2 := s.Radius * s.Radius

	if h2 > r2 {
		return 0, false
	} else if h2 == r2 {
		// Tangent.
		if vu > 0 { return vu, true }
		return 0, false
	}

	delta := math.Sqrt(r2 - h2)
	d0 := vu + delta
	if d0 <= 0 { return 0, false }
	if d1 := vu - delta; d1 > 0 { return d1, true }
	return d0, true
}

// Inside returns true if position is strictly inside the sphere.
func (s *Sphere) Inside(position r3.Vec) bool {
	return r3.Norm2(r3.Sub(position, s.Center)) < s.Radius*s.Radius
}
