package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/strata/math/mat"
)

// Box is a rectangular box. Size gives the half-widths along the box's own
// axes and Rotation gives the Euler angles (radians, see EulerMatrix) which
// take the box's axes to the world's.
type Box struct {
	Center, Size, Rotation r3.Vec

	// toLocal is the inverse rotation, nil for axis-aligned boxes.
	toLocal *mat.Matrix
}

// NewBox returns a box centered on center with half-widths size, rotated by
// the Euler angles in rotation.
func NewBox(center, size, rotation r3.Vec) (*Box, error) {
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return nil, fmt.Errorf(
			"%w: box half-widths must be positive, but are (%g, %g, %g)",
			ErrShape, size.X, size.Y, size.Z,
		)
	}

	b := &Box{Center: center, Size: size, Rotation: rotation}
	if rotation != (r3.Vec{}) {
		b.toLocal = EulerMatrix(rotation.X, rotation.Y, rotation.Z).Transpose()
	}
	return b, nil
}

// NewAxisAlignedBox returns a box with no rotation.
func NewAxisAlignedBox(center, size r3.Vec) (*Box, error) {
	return NewBox(center, size, r3.Vec{})
}

// local transforms a position and direction into the box's frame.
func (b *Box) local(position, direction r3.Vec) (p, u r3.Vec) {
	p = r3.Sub(position, b.Center)
	if b.toLocal == nil { return p, direction }
	return b.toLocal.Apply(p), b.toLocal.Apply(direction)
}

// Distance returns the distance to the box's surface using a slab test in
// the box's frame: the entry distance if the ray starts outside, the exit
// distance if it starts inside.
func (b *Box) Distance(position, direction r3.Vec) (float64, bool) {
	p, u := b.local(position, direction)
	ps := [3]float64{p.X, p.Y, p.Z}
	us := [3]float64{u.X, u.Y, u.Z}
	hs := [3]float64{b.Size.X, b.Size.Y, b.Size.Z}

	tMin, tMax := math.Inf(-1), math.Inf(+1)
	for k := 0; k < 3; k++ {
		if us[k] == 0 {
			// Parallel to this slab: either always between its faces or never.
			if ps[k] <= -hs[k] || ps[k] >= hs[k] { return 0, false }
			continue
		}

		t1 := (-hs[k] - ps[k]) / us[k]
		t2 := (hs[k] - ps[k]) / us[k]
		if t1 > t2 { t1, t2 = t2, t1 }
		if t1 > tMin { tMin = t1 }
		if t2 < tMax { tMax = t2 }
	}

	if tMax < tMin { return 0, false }
	if tMin > 0 { return tMin, true }
	if tMax > 0 { return tMax, true }
	return 0, false
}

// Inside returns true if position is strictly inside the box.
func (b *Box) Inside(position r3.Vec) bool {
	p, _ := b.local(position, r3.Vec{})
	return math.Abs(p.X) < b.Size.X &&
		math.Abs(p.Y) < b.Size.Y &&
		math.Abs(p.Z) < b.Size.Z
}
