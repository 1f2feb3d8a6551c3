package geometry

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/strata/topography"
)

// DefaultMinStep is the smallest step a StratifiedTracer takes when its
// geometry doesn't use any maps.
const DefaultMinStep = 1e-6

// Stratified is a geometry made of horizontal layers stacked on top of one
// another. Layer i lies between interfaces i and i+1, so there is always one
// more interface than there are sectors. Interface 0 is the bottom of the
// stack and the last interface is the top. An empty bottom or top chain
// leaves the stack open in that direction.
type Stratified struct {
	materials []Material
	sectors []Sector
	interfaces []topography.Interface
	pool topography.Pool
}

// NewStratified returns a geometry with a single layer which fills all of
// space.
func NewStratified(
	material Material, density DensityModel, description string,
) *Stratified {
	if description == "" { description = layerName(0) }
	return &Stratified{
		materials: []Material{material.Clone()},
		sectors: []Sector{{
			Material: 0, Density: density, Description: description,
		}},
		interfaces: []topography.Interface{{}, {}},
	}
}

func layerName(i int) string { return fmt.Sprintf("Layer %d", i) }

// PushLayer adds a layer on top of the stack. sources is the fallback chain
// of the interface between the new layer and the previous top layer. The
// top interface, whether open or set by SetTop, stays above the new layer.
//
// Adding a material whose name is already used by a different material fails
// with ErrMaterialConflict and leaves the geometry unchanged.
func (g *Stratified) PushLayer(
	sources []topography.Source, material Material,
	density DensityModel, description string,
) error {
	if err := topography.CheckSources(sources); err != nil {
		return fmt.Errorf("geometry: layer %d: %w", len(g.sectors), err)
	}
	mi, err := g.materialIndex(&material)
	if err != nil { return err }

	if mi == len(g.materials) {
		g.materials = append(g.materials, material.Clone())
	}
	if description == "" { description = layerName(len(g.sectors)) }
	g.sectors = append(g.sectors, Sector{
		Material: mi, Density: density, Description: description,
	})

	n := len(g.interfaces)
	top := g.interfaces[n-1]
	g.interfaces = append(
		g.interfaces[:n-1], topography.Resolve(sources, &g.pool), top,
	)
	return nil
}

// materialIndex returns the index of material in g.materials or
// len(g.materials) if it hasn't been added yet.
func (g *Stratified) materialIndex(material *Material) (int, error) {
	for i := range g.materials {
		if g.materials[i].Name != material.Name { continue }
		if !g.materials[i].Equal(material) {
			return 0, fmt.Errorf("%w: '%s'", ErrMaterialConflict, material.Name)
		}
		return i, nil
	}
	return len(g.materials), nil
}

// SetBottom sets the chain of the interface below the lowest layer.
func (g *Stratified) SetBottom(sources []topography.Source) error {
	if err := topography.CheckSources(sources); err != nil {
		return fmt.Errorf("geometry: bottom: %w", err)
	}
	g.interfaces[0] = topography.Resolve(sources, &g.pool)
	return nil
}

// SetTop sets the chain of the interface above the highest layer.
func (g *Stratified) SetTop(sources []topography.Source) error {
	if err := topography.CheckSources(sources); err != nil {
		return fmt.Errorf("geometry: top: %w", err)
	}
	g.interfaces[len(g.interfaces)-1] = topography.Resolve(sources, &g.pool)
	return nil
}

// Elevations evaluates every interface at (x, y), bottom to top. Each map is
// only evaluated once.
func (g *Stratified) Elevations(x, y float64) (zs []float64, oks []bool) {
	gridZ, gridOK := g.pool.Z(x, y)
	lookup := func(i int) (float64, bool) { return gridZ[i], gridOK[i] }

	zs, oks = make([]float64, len(g.interfaces)), make([]bool, len(g.interfaces))
	for i := range g.interfaces {
		zs[i], oks[i] = g.interfaces[i].Eval(lookup)
	}
	return zs, oks
}

func (g *Stratified) Materials() []Material { return g.materials }
func (g *Stratified) Sectors() []Sector { return g.sectors }

// Interfaces returns the resolved interfaces, bottom to top.
func (g *Stratified) Interfaces() []topography.Interface { return g.interfaces }

// Grids returns the maps used by the geometry. Interface entries index into
// this slice.
func (g *Stratified) Grids() []*topography.Map { return g.pool.Maps() }

// MinStep returns the smallest cell width of the geometry's maps, or
// DefaultMinStep if it has none.
func (g *Stratified) MinStep() float64 {
	if g.pool.Len() == 0 { return DefaultMinStep }
	min := math.Inf(1)
	for _, m := range g.pool.Maps() {
		if w := m.CellWidth(); w < min { min = w }
	}
	return min
}

func (g *Stratified) NewTracer() Tracer { return NewStratifiedTracer(g) }
