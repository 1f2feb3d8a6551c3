/*package transport runs batches of rays through a geometry.

Only the geometry.Definition and geometry.Tracer contract is used, so any
geometry can be transported. Batches are split between NumCores workers, each
with its own tracer over the shared geometry.
*/
package transport

import (
	"context"
	"fmt"
	"math"
	"runtime"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/strata/geometry"
)

// NumCores is the number of workers used by Locate and Trace.
var NumCores = runtime.NumCPU()

// checkInterval is the number of rays or steps a worker takes between
// checks for cancellation.
const checkInterval = 1000

// State is the initial state of a ray.
type State struct {
	Position, Direction r3.Vec
}

// worker is the per-goroutine workspace of a batch.
type worker struct {
	ctx context.Context
	tracer geometry.Tracer
	calls int
	err error
}

// interrupted counts one ray or step and returns true if the batch has been
// cancelled.
func (w *worker) interrupted() bool {
	w.calls++
	if w.err == nil && w.calls%checkInterval == 0 { w.err = w.ctx.Err() }
	return w.err != nil
}

// run calls f on every index in [0, n). Worker id handles the indices
// id, id + workers, id + 2*workers, ...
func run(
	ctx context.Context, def geometry.Definition, n int,
	f func(w *worker, i int),
) error {
	if err := ctx.Err(); err != nil { return err }

	workers := NumCores
	if workers > n { workers = n }
	if workers < 1 { workers = 1 }

	ws := make([]worker, workers)
	out := make(chan int, workers)
	work := func(id int) {
		w := &ws[id]
		w.ctx, w.tracer = ctx, def.NewTracer()
		for i := id; i < n && !w.interrupted(); i += workers { f(w, i) }
		out <- id
	}

	for id := 0; id < workers-1; id++ { go work(id) }
	work(workers - 1)
	for i := 0; i < workers; i++ { <-out }

	for i := range ws {
		if ws[i].err != nil { return ws[i].err }
	}
	return nil
}

// Locate returns the sector of every state. States which are outside of all
// sectors get len(def.Sectors()).
func Locate(
	ctx context.Context, def geometry.Definition, states []State,
) ([]int, error) {
	m := len(def.Sectors())
	sectors := make([]int, len(states))

	log.Debugf("Locating %d states over %d sectors", len(states), m)
	err := run(ctx, def, len(states), func(w *worker, i int) {
		w.tracer.Reset(states[i].Position, states[i].Direction)
		if sector, ok := w.tracer.Sector(); ok {
			sectors[i] = sector
		} else {
			sectors[i] = m
		}
	})
	if err != nil { return nil, err }
	return sectors, nil
}

// Trace follows every state along its direction and returns, for each state,
// the length travelled in each sector. If useDensity is true, column depths
// are returned instead of lengths.
//
// lengths bounds the distance travelled: nil means unbounded, a single value
// is shared by every state, and otherwise there must be one length per state.
// A ray stops when it leaves every sector, when its length is used up, or
// when it takes an infinite step, which includes rays that never get closer
// to any interface.
func Trace(
	ctx context.Context, def geometry.Definition, states []State,
	lengths []float64, useDensity bool,
) ([][]float64, error) {
	if len(lengths) > 1 && len(lengths) != len(states) {
		return nil, fmt.Errorf(
			"transport: expected 0, 1, or %d lengths, but got %d",
			len(states), len(lengths),
		)
	}

	sectors := def.Sectors()
	out := make([][]float64, len(states))
	buf := make([]float64, len(states)*len(sectors))
	for i := range out { out[i] = buf[i*len(sectors) : (i+1)*len(sectors)] }

	log.Debugf("Tracing %d states over %d sectors", len(states), len(sectors))
	err := run(ctx, def, len(states), func(w *worker, i int) {
		length := math.Inf(+1)
		switch len(lengths) {
		case 0:
		case 1:
			length = lengths[0]
		default:
			length = lengths[i]
		}
		traceOne(w, sectors, states[i], length, useDensity, out[i])
	})
	if err != nil { return nil, err }
	return out, nil
}

func traceOne(
	w *worker, sectors []geometry.Sector, state State,
	length float64, useDensity bool, grammage []float64,
) {
	tr := w.tracer
	tr.Reset(state.Position, state.Direction)
	bounded := !math.IsInf(length, +1)

	for {
		sector, ok := tr.Sector()
		if !ok { return }

		step := tr.Trace(length)
		if useDensity {
			grammage[sector] += sectors[sector].Density.ColumnDepth(
				tr.Position(), state.Direction, step,
			)
		} else {
			grammage[sector] += step
		}

		if math.IsInf(step, +1) { return }
		if bounded {
			length -= step
			if length <= 0 { return }
		}
		tr.Update(step, state.Direction)

		if w.interrupted() { return }
	}
}
