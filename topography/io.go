package topography

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"
)

// latticeEps is the relative tolerance, in units of node spacing, with which
// table coordinates must fall on the lattice.
const latticeEps = 1e-6

// ReadMap reads a map from a text table whose first three columns are x, y,
// and z. Every node of a regular lattice must appear exactly once, in any
// order.
func ReadMap(fname string) (*Map, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil { return nil, err }

	m, err := MapFromPoints(cols[0], cols[1], cols[2])
	if err != nil { return nil, fmt.Errorf("%s: %w", fname, err) }
	return m, nil
}

// MapFromPoints creates a map from scattered (x, y, z) samples which lie on
// a regular lattice.
func MapFromPoints(xs, ys, zs []float64) (*Map, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, fmt.Errorf(
			"%w: column lengths differ (%d, %d, %d)",
			ErrShape, len(xs), len(ys), len(zs),
		)
	}

	if len(zs) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrShape)
	}

	xNodes, yNodes := distinct(xs), distinct(ys)
	nx, ny := len(xNodes), len(yNodes)
	if nx*ny != len(zs) {
		return nil, fmt.Errorf(
			"%w: %d points do not form a %d x %d lattice",
			ErrShape, len(zs), ny, nx,
		)
	}

	m, err := NewMap(
		xNodes[0], xNodes[nx-1], nx, yNodes[0], yNodes[ny-1], ny,
	)
	if err != nil { return nil, err }

	dx, dy := m.z.Spacing()
	seen := make([]bool, nx*ny)
	for k := range zs {
		j, ok := latticeIndex(xs[k], xNodes[0], dx, nx)
		if !ok {
			return nil, fmt.Errorf(
				"%w: x = %g is not on a uniform lattice", ErrShape, xs[k],
			)
		}
		i, ok := latticeIndex(ys[k], yNodes[0], dy, ny)
		if !ok {
			return nil, fmt.Errorf(
				"%w: y = %g is not on a uniform lattice", ErrShape, ys[k],
			)
		}

		if seen[i*nx+j] {
			return nil, fmt.Errorf(
				"%w: node (%g, %g) appears twice", ErrShape, xs[k], ys[k],
			)
		}
		seen[i*nx+j] = true
		m.Set(i, j, zs[k])
	}

	return m, nil
}

// distinct returns the sorted distinct values of xs.
func distinct(xs []float64) []float64 {
	out := append([]float64{}, xs...)
	sort.Float64s(out)
	n := 0
	for i, x := range out {
		if i == 0 || x != out[n-1] {
			out[n] = x
			n++
		}
	}
	return out[:n]
}

func latticeIndex(x, x0, dx float64, n int) (int, bool) {
	u := (x - x0) / dx
	i := int(math.Round(u))
	if i < 0 || i >= n || math.Abs(u-float64(i)) > latticeEps {
		return 0, false
	}
	return i, true
}
