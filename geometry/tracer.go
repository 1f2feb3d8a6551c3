package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// bisectFraction is the width of the interval which brackets an interface
// crossing at the end of Trace, in units of the tracer's minimum step.
const bisectFraction = 1e-3

// mapMemo is the last elevation read from one of the geometry's maps.
type mapMemo struct {
	x, y, z float64
	ok bool
}

// StratifiedTracer traces rays through a Stratified geometry.
//
// Stratum membership only depends on the height of the ray relative to the
// interfaces at its (x, y) position. The vertical distance to the nearest
// interface closes no faster than |u.Z| plus the steepest map slope times the
// horizontal speed of the ray, which bounds a step that can't cross an
// interface. Steps also end just past the edges of maps, where fallback
// interfaces take over. Steps which end in a different sector are shortened
// by bisection so that they end just past the crossing.
type StratifiedTracer struct {
	def *Stratified
	minStep float64
	slope float64

	position, direction r3.Vec
	sector int
	inside bool
	distance float64

	// The pending step and the state on its far side.
	step float64
	next int
	nextInside bool
	nextDistance float64

	memos []mapMemo
	qx, qy float64
	lookup func(int) (float64, bool)
}

// NewStratifiedTracer returns a tracer over def. def must not be changed
// while the tracer is in use.
func NewStratifiedTracer(def *Stratified) *StratifiedTracer {
	t := &StratifiedTracer{
		def: def, minStep: def.MinStep(), step: math.NaN(),
		memos: make([]mapMemo, def.pool.Len()),
	}
	for i := range t.memos {
		t.memos[i] = mapMemo{x: math.NaN(), y: math.NaN()}
		t.slope = math.Max(t.slope, def.pool.Map(i).MaxSlope())
	}
	t.lookup = t.mapZ
	return t
}

// mapZ returns the elevation of map i at (t.qx, t.qy), reading the map only
// if the position changed since its last read.
func (t *StratifiedTracer) mapZ(i int) (float64, bool) {
	m := &t.memos[i]
	if m.x != t.qx || m.y != t.qy {
		m.x, m.y = t.qx, t.qy
		m.z, m.ok = t.def.pool.Map(i).Z(t.qx, t.qy)
	}
	return m.z, m.ok
}

func (t *StratifiedTracer) Reset(position, direction r3.Vec) {
	t.position, t.direction = position, direction
	t.sector, t.inside, t.distance = t.Locate(position)
	t.step = math.NaN()
}

func (t *StratifiedTracer) Position() r3.Vec { return t.position }
func (t *StratifiedTracer) Direction() r3.Vec { return t.direction }
func (t *StratifiedTracer) Sector() (int, bool) { return t.sector, t.inside }

// Locate returns the sector containing position and the vertical distance
// from position to the nearest interface. A position exactly on an interface
// belongs to the sector below it. The distance is never smaller than the
// tracer's minimum step. Locate doesn't change the ray.
func (t *StratifiedTracer) Locate(
	position r3.Vec,
) (sector int, ok bool, distance float64) {
	ifaces := t.def.interfaces
	top := len(ifaces) - 1
	t.qx, t.qy = position.X, position.Y

	gap := math.Inf(1)
	if z, zOK := ifaces[0].Eval(t.lookup); zOK {
		if position.Z <= z { return 0, false, t.clamp(z - position.Z) }
		gap = position.Z - z
	}

	for i := 1; i <= top; i++ {
		z, zOK := ifaces[i].Eval(t.lookup)
		if !zOK {
			if i == top && len(ifaces[i]) == 0 {
				return top - 1, true, t.clamp(gap)
			}
			continue
		}

		if position.Z <= z {
			return i - 1, true, t.clamp(math.Min(gap, z - position.Z))
		}
		gap = math.Min(gap, position.Z - z)
	}

	return 0, false, t.clamp(gap)
}

func (t *StratifiedTracer) clamp(d float64) float64 {
	if d < t.minStep { return t.minStep }
	return d
}

func (t *StratifiedTracer) sameSector(sector int, ok bool) bool {
	return ok == t.inside && (!ok || sector == t.sector)
}

func (t *StratifiedTracer) at(length float64) r3.Vec {
	return r3.Add(t.position, r3.Scale(length, t.direction))
}

// safeStep returns the longest step along the ray which can't cross an
// interface. It is infinite for a ray which never gets closer to any
// interface.
func (t *StratifiedTracer) safeStep() float64 {
	u := t.direction
	step := math.Inf(1)
	rate := math.Abs(u.Z) + t.slope*math.Hypot(u.X, u.Y)
	if rate > 0 { step = math.Max(t.distance/rate, t.minStep) }
	return math.Min(step, t.edgeStep())
}

// edgeStep returns the length of the step which ends just past the nearest
// map edge ahead of the ray.
func (t *StratifiedTracer) edgeStep() float64 {
	p, u := t.position, t.direction
	step := math.Inf(1)
	for i := 0; i < t.def.pool.Len(); i++ {
		xMin, xMax, yMin, yMax := t.def.pool.Map(i).Bounds()
		step = math.Min(step, lineDistance(p.X, u.X, xMin))
		step = math.Min(step, lineDistance(p.X, u.X, xMax))
		step = math.Min(step, lineDistance(p.Y, u.Y, yMin))
		step = math.Min(step, lineDistance(p.Y, u.Y, yMax))
	}
	if math.IsInf(step, 1) { return step }
	return step + t.minStep*bisectFraction
}

// lineDistance returns the parametric distance from x to the line at edge
// along a ray whose velocity is u, or +Inf if the ray never reaches it.
func lineDistance(x, u, edge float64) float64 {
	if u == 0 { return math.Inf(1) }
	d := (edge - x) / u
	if d <= 0 { return math.Inf(1) }
	return d
}

// Trace returns the length of the next step, which is no longer than
// maxLength. If the step crosses an interface it ends just past the
// crossing, and the sector on the far side becomes current when Update is
// called with the returned length. A ray which never approaches an
// interface gets an infinite step.
func (t *StratifiedTracer) Trace(maxLength float64) float64 {
	length := math.Min(t.safeStep(), maxLength)
	t.next, t.nextInside, t.nextDistance = t.sector, t.inside, t.distance

	if !(length > 0) {
		t.step = 0
		return 0
	} else if math.IsInf(length, 1) {
		t.step = length
		return length
	}

	sector, ok, distance := t.Locate(t.at(length))
	if t.sameSector(sector, ok) {
		t.step, t.nextDistance = length, distance
		return length
	}

	// [lo, hi] brackets the crossing: lo is in the current sector and hi
	// isn't.
	lo, hi := 0.0, length
	tol := t.minStep * bisectFraction
	for hi - lo > tol {
		mid := 0.5 * (lo + hi)
		if mid <= lo || mid >= hi { break }

		s, sOK, d := t.Locate(t.at(mid))
		if t.sameSector(s, sOK) {
			lo = mid
		} else {
			hi, sector, ok, distance = mid, s, sOK, d
		}
	}

	t.step = hi
	t.next, t.nextInside, t.nextDistance = sector, ok, distance
	return hi
}

// Update moves the ray length along its current direction and then points it
// along direction. If length is the step returned by the last call to Trace,
// the ray moves into the sector at the end of that step. Otherwise the ray is
// assumed to have stopped before leaving its sector.
func (t *StratifiedTracer) Update(length float64, direction r3.Vec) {
	t.position = t.at(length)
	t.direction = direction

	if length == t.step {
		t.sector, t.inside, t.distance = t.next, t.nextInside, t.nextDistance
	} else {
		_, _, t.distance = t.Locate(t.position)
	}
	t.step = math.NaN()
}
