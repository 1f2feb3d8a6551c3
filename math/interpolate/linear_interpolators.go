package interpolate

import (
	"fmt"
)

/////////////////////////////
// BiLinear Implementation //
/////////////////////////////

// BiLinear is a bi-linear interpolator over a uniform grid. Values are stored
// in row-major order: vals[iy*nx + ix].
//
// The values slice is shared, not copied, so it can be filled in after the
// interpolator has been created. It must not be modified while the
// interpolator is being evaluated concurrently.
type BiLinear struct {
	xs, ys searcher
	vals []float64
	nx int
}

// NewUniformBiLinear creates a bi-linear interpolator with nx nodes spanning
// [x0, x1] and ny nodes spanning [y0, y1]. If vals is nil, a zeroed slice is
// allocated.
func NewUniformBiLinear(
	x0, x1 float64, nx int,
	y0, y1 float64, ny int,
	vals []float64,
) *BiLinear {
	bi := &BiLinear{}
	bi.xs.unifInit(x0, x1, nx)
	bi.ys.unifInit(y0, y1, ny)
	bi.nx = nx

	if vals == nil { vals = make([]float64, nx*ny) }
	if nx*ny != len(vals) {
		panic(fmt.Sprintf(
			"len(vals) = %d, but nx = %d and ny = %d",
			len(vals), nx, ny,
		))
	}
	bi.vals = vals

	return bi
}

// Eval returns the interpolated value at (x, y). ok is false if (x, y) is
// outside the grid.
func (bi *BiLinear) Eval(x, y float64) (v float64, ok bool) {
	ix, hx, ok := bi.xs.search(x)
	if !ok { return 0, false }
	iy, hy, ok := bi.ys.search(y)
	if !ok { return 0, false }

	i00 := iy*bi.nx + ix
	i10 := i00 + bi.nx
	v00, v01 := bi.vals[i00], bi.vals[i00+1]
	v10, v11 := bi.vals[i10], bi.vals[i10+1]

	gx, gy := 1 - hx, 1 - hy
	return v00*gx*gy + v01*hx*gy + v10*gx*hy + v11*hx*hy, true
}

// Set sets the value of the node at column ix and row iy.
func (bi *BiLinear) Set(ix, iy int, v float64) { bi.vals[iy*bi.nx+ix] = v }

// At returns the value of the node at column ix and row iy.
func (bi *BiLinear) At(ix, iy int) float64 { return bi.vals[iy*bi.nx+ix] }

// Vals returns the underlying value slice. Writes to it are seen by Eval.
func (bi *BiLinear) Vals() []float64 { return bi.vals }

// Shape returns the number of nodes along each axis.
func (bi *BiLinear) Shape() (nx, ny int) { return bi.xs.n, bi.ys.n }

// Spacing returns the node spacing along each axis.
func (bi *BiLinear) Spacing() (dx, dy float64) { return bi.xs.dx, bi.ys.dx }

// XNode returns the x coordinate of the ix-th column.
func (bi *BiLinear) XNode(ix int) float64 { return bi.xs.val(ix) }

// YNode returns the y coordinate of the iy-th row.
func (bi *BiLinear) YNode(iy int) float64 { return bi.ys.val(iy) }
