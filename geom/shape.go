/*package geom contains the shape primitives used to bound and probe
transport geometries: spheres and (optionally rotated) boxes.

Shapes answer two questions about a ray: how far along it is the next
crossing of the shape's boundary, and whether a point is inside. Boundary
points are outside, so the two answers stay consistent when a ray is moved
exactly onto a boundary.
*/
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrShape is returned when a shape is constructed with invalid dimensions.
var ErrShape = errors.New("geom: invalid shape")

// Shape is a closed surface.
type Shape interface {
	// Distance returns the distance from position to the nearest forward
	// crossing of the shape's boundary along direction. ok is false if the
	// ray never crosses it.
	Distance(position, direction r3.Vec) (d float64, ok bool)
	// Inside returns true if position is strictly inside the shape.
	Inside(position r3.Vec) bool
}

var (
	_ Shape = &Sphere{}
	_ Shape = &Box{}
)

// DistanceOrInf returns the boundary distance of s, or +Inf if the boundary
// is never reached.
func DistanceOrInf(s Shape, position, direction r3.Vec) float64 {
	d, ok := s.Distance(position, direction)
	if !ok { return math.Inf(+1) }
	return d
}
