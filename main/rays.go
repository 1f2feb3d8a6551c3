package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/strata/geom"
	"github.com/phil-mansfield/strata/io"
	"github.com/phil-mansfield/strata/transport"
)

// readRays reads a table of ray states: x y z ux uy uz and, if withLengths
// is set, a seventh column of ray lengths. Directions are normalized.
func readRays(
	fname string, withLengths bool,
) ([]transport.State, []float64, error) {
	colIdxs := []int{0, 1, 2, 3, 4, 5}
	if withLengths { colIdxs = append(colIdxs, 6) }

	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil { return nil, nil, err }

	states := make([]transport.State, len(cols[0]))
	for i := range states {
		u := r3.Vec{X: cols[3][i], Y: cols[4][i], Z: cols[5][i]}
		if r3.Norm(u) == 0 {
			return nil, nil, fmt.Errorf(
				"%s: ray %d has a zero direction.", fname, i,
			)
		}
		states[i] = transport.State{
			Position: r3.Vec{X: cols[0][i], Y: cols[1][i], Z: cols[2][i]},
			Direction: r3.Unit(u),
		}
	}

	if withLengths { return states, cols[6], nil }
	return states, nil, nil
}

func parsePoint(xs, ys string) (x, y float64, err error) {
	if x, err = strconv.ParseFloat(xs, 64); err != nil {
		return 0, 0, fmt.Errorf("Invalid x coordinate '%s'.", xs)
	}
	if y, err = strconv.ParseFloat(ys, 64); err != nil {
		return 0, 0, fmt.Errorf("Invalid y coordinate '%s'.", ys)
	}
	return x, y, nil
}

// geomDistance is the distance from a ray's start to a probe's boundary,
// NaN if the ray never reaches it.
func geomDistance(p io.Probe, state transport.State) float64 {
	d := geom.DistanceOrInf(p.Shape, state.Position, state.Direction)
	if math.IsInf(d, +1) { return math.NaN() }
	return d
}
