/*package topography contains digital elevation models (DEMs) and the
interfaces built from them which separate the layers of a stratified
geometry.
*/
package topography

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/strata/math/interpolate"
)

// ErrShape is returned when a map is created with, or filled from, data of
// the wrong shape.
var ErrShape = errors.New("topography: bad map shape")

// Map is a regular grid of elevation values with bi-linear interpolation in
// between nodes.
//
// A Map is compared by identity: two maps with the same values are still two
// different maps.
type Map struct {
	xMin, xMax, yMin, yMax float64
	z *interpolate.BiLinear
}

// NewMap creates a map with nx columns spanning [xMin, xMax] and ny rows
// spanning [yMin, yMax]. All elevations are initialized to zero.
func NewMap(
	xMin, xMax float64, nx int,
	yMin, yMax float64, ny int,
) (*Map, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf(
			"%w: a map needs at least 2 x 2 nodes, but has %d x %d",
			ErrShape, nx, ny,
		)
	} else if !(xMax > xMin) || math.IsInf(xMax-xMin, 0) {
		return nil, fmt.Errorf(
			"%w: x range [%g, %g] is empty or unbounded", ErrShape, xMin, xMax,
		)
	} else if !(yMax > yMin) || math.IsInf(yMax-yMin, 0) {
		return nil, fmt.Errorf(
			"%w: y range [%g, %g] is empty or unbounded", ErrShape, yMin, yMax,
		)
	}

	m := &Map{xMin: xMin, xMax: xMax, yMin: yMin, yMax: yMax}
	m.z = interpolate.NewUniformBiLinear(xMin, xMax, nx, yMin, yMax, ny, nil)
	return m, nil
}

// Z returns the elevation at (x, y). ok is false if (x, y) is not covered by
// the map.
func (m *Map) Z(x, y float64) (z float64, ok bool) { return m.z.Eval(x, y) }

// Shape returns the number of rows and columns of the map.
func (m *Map) Shape() (ny, nx int) {
	nx, ny = m.z.Shape()
	return ny, nx
}

// Set sets the elevation of the node in row i and column j.
func (m *Map) Set(i, j int, z float64) { m.z.Set(j, i, z) }

// At returns the elevation of the node in row i and column j.
func (m *Map) At(i, j int) float64 { return m.z.At(j, i) }

// Fill copies the row-major elevations zs into the map.
func (m *Map) Fill(zs []float64) error {
	vals := m.z.Vals()
	if len(zs) != len(vals) {
		ny, nx := m.Shape()
		return fmt.Errorf(
			"%w: expected %d x %d = %d elevations, got %d",
			ErrShape, ny, nx, len(vals), len(zs),
		)
	}
	copy(vals, zs)
	return nil
}

// Values returns the map's elevations in row-major order. The slice is a
// view: writing to it changes the map. It must not be written to once
// tracing has started.
func (m *Map) Values() []float64 { return m.z.Vals() }

// X returns the x coordinates of the map's columns.
func (m *Map) X() []float64 {
	_, nx := m.Shape()
	xs := make([]float64, nx)
	for j := range xs { xs[j] = m.z.XNode(j) }
	return xs
}

// Y returns the y coordinates of the map's rows.
func (m *Map) Y() []float64 {
	ny, _ := m.Shape()
	ys := make([]float64, ny)
	for i := range ys { ys[i] = m.z.YNode(i) }
	return ys
}

// Bounds returns the horizontal extent of the map.
func (m *Map) Bounds() (xMin, xMax, yMin, yMax float64) {
	return m.xMin, m.xMax, m.yMin, m.yMax
}

// CellWidth returns the smaller of the two node spacings.
func (m *Map) CellWidth() float64 {
	dx, dy := m.z.Spacing()
	return math.Min(dx, dy)
}

// MaxSlope returns an upper bound on the horizontal gradient of the map's
// elevation: no two points on the map differ in elevation by more than
// MaxSlope times their horizontal separation.
func (m *Map) MaxSlope() float64 {
	ny, nx := m.Shape()
	dx, dy := m.z.Spacing()
	gx, gy := 0.0, 0.0
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			z := m.At(i, j)
			if j+1 < nx { gx = math.Max(gx, math.Abs(m.At(i, j+1)-z)) }
			if i+1 < ny { gy = math.Max(gy, math.Abs(m.At(i+1, j)-z)) }
		}
	}
	return math.Hypot(gx/dx, gy/dy)
}
