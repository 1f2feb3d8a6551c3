/*package geometry describes the media that rays are transported through and
the tracers which walk rays across them.

A geometry is a list of materials and a list of sectors. Each sector is a
region of space filled with one material and one density model. Geometries
answer two questions for a ray, through a Tracer: which sector is the ray in,
and how far can it go before it might leave that sector.

Geometries are built once and are read-only afterwards. A Tracer holds the
state of a single ray and must not be shared between goroutines, but any
number of tracers may read the same geometry concurrently.
*/
package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// DensityModel gives the density of a sector's material.
type DensityModel interface {
	// Value returns the density at position.
	Value(position r3.Vec) float64
	// ColumnDepth returns the integral of the density along a straight
	// segment of the given length.
	ColumnDepth(position, direction r3.Vec, length float64) float64
}

// Sector is a region of a geometry filled with a single material.
type Sector struct {
	// Material is an index into the geometry's materials.
	Material int
	Density DensityModel
	Description string
}

// Definition is a geometry as seen by the transport loop.
type Definition interface {
	Materials() []Material
	Sectors() []Sector
	// NewTracer returns a tracer over the geometry. Tracers are cheap
	// compared to the geometry.
	NewTracer() Tracer
}

// Tracer walks a single ray through a Definition.
//
// The usual cycle is Reset once, then alternate Trace and Update while
// Sector returns ok = true. Trace proposes a step which ends at or just past
// the next sector boundary; calling Update with exactly that length moves the
// ray into the sector on the far side.
type Tracer interface {
	// Reset moves the ray to position, pointing along direction, and
	// locates it.
	Reset(position, direction r3.Vec)
	Position() r3.Vec
	// Sector returns the index of the ray's sector. ok is false if the ray
	// is outside of every sector.
	Sector() (index int, ok bool)
	// Trace returns the length the ray may travel along its direction
	// before crossing into another sector, capped at maxLength.
	Trace(maxLength float64) float64
	// Update moves the ray length along its current direction and then
	// points it along direction.
	Update(length float64, direction r3.Vec)
}

var (
	_ Definition = &Simple{}
	_ Definition = &Stratified{}

	_ Tracer = &SimpleTracer{}
	_ Tracer = &StratifiedTracer{}
)

// SectorIndex returns the index of the first sector with the given
// description.
func SectorIndex(def Definition, description string) (int, bool) {
	for i, s := range def.Sectors() {
		if s.Description == description { return i, true }
	}
	return 0, false
}
