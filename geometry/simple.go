package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Simple is a geometry made of a single sector which fills all of space.
type Simple struct {
	materials []Material
	sectors []Sector
}

// NewSimple returns a geometry filled with material at the given density.
func NewSimple(material Material, density DensityModel) *Simple {
	return &Simple{
		materials: []Material{material.Clone()},
		sectors: []Sector{{Material: 0, Density: density}},
	}
}

// SetDensity replaces the density model. It must not be called while
// tracing.
func (g *Simple) SetDensity(density DensityModel) { g.sectors[0].Density = density }

func (g *Simple) Materials() []Material { return g.materials }
func (g *Simple) Sectors() []Sector { return g.sectors }
func (g *Simple) NewTracer() Tracer { return &SimpleTracer{} }

// SimpleTracer traces rays through a Simple geometry. Rays never leave the
// geometry's one sector.
type SimpleTracer struct {
	position, direction r3.Vec
}

func (t *SimpleTracer) Reset(position, direction r3.Vec) {
	t.position, t.direction = position, direction
}

func (t *SimpleTracer) Position() r3.Vec { return t.position }
func (t *SimpleTracer) Direction() r3.Vec { return t.direction }
func (t *SimpleTracer) Sector() (int, bool) { return 0, true }
func (t *SimpleTracer) Trace(maxLength float64) float64 { return maxLength }

func (t *SimpleTracer) Update(length float64, direction r3.Vec) {
	t.position = r3.Add(t.position, r3.Scale(length, t.direction))
	t.direction = direction
}
