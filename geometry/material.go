package geometry

import (
	"errors"
)

// ErrMaterialConflict is returned when a material is added to a geometry
// which already has a different material with the same name.
var ErrMaterialConflict = errors.New(
	"geometry: material already exists with a different definition",
)

// Component is one element of a material's mass composition.
type Component struct {
	// Weight is the mass fraction of the element.
	Weight float64
	// Element is the element's symbol or a compound's name.
	Element string
}

// Material is a named material. Geometries only compare materials, they
// never look inside them.
type Material struct {
	Name string
	Composition []Component
}

// Equal returns true if the two materials have the same name and
// composition.
func (m *Material) Equal(other *Material) bool {
	if m.Name != other.Name || len(m.Composition) != len(other.Composition) {
		return false
	}
	for i := range m.Composition {
		if m.Composition[i] != other.Composition[i] { return false }
	}
	return true
}

// Clone returns a deep copy of m.
func (m *Material) Clone() Material {
	out := Material{Name: m.Name}
	if m.Composition != nil {
		out.Composition = append([]Component{}, m.Composition...)
	}
	return out
}
