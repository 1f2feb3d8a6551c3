/*package io reads the configuration files which describe geometries and the
probe shapes used to report on them.

Configuration files are INI-style gcfg files. Run "strata example-config" to
see every section and variable.
*/
package io

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/strata/geometry"
)

const ExampleGeometryFile = `[Geometry]
# Layers, listed from the bottom of the stack to the top. Each name refers to
# a [Layer] section below.
Layers = ground
Layers = atmosphere

#######################
# Optional Parameters #
#######################

# Interfaces below the lowest layer and above the highest layer. Leaving
# either out leaves the stack open in that direction. Interfaces are fallback
# chains: entries are tried in order and the first one which is defined at a
# ray's (x, y) position gives the elevation. An entry is either a constant
# elevation, the name of a [Grid], or the name of a [Grid] followed by an
# offset.
# Bottom = dem -1000
# Bottom = -1000
Top = 100e3

[Grid "dem"]
# Elevation maps. Either read a map from a text table with three columns,
# x y z, whose rows lie on a regular lattice:
# File = path/to/dem.txt

# or create a flat map which can be filled in later:
XMin = -5e3
XMax = 5e3
NX = 101
YMin = -5e3
YMax = 5e3
NY = 101
Elevation = 0

[Material "rock"]
# Mass composition, one "weight symbol" pair per line.
Composition = 0.47 O
Composition = 0.28 Si
Composition = 0.25 Al

[Material "air"]
Composition = 0.755 N
Composition = 0.232 O
Composition = 0.013 Ar

[Layer "ground"]
Material = rock
# Density in g/cm^3.
Density = 2.65

[Layer "atmosphere"]
Material = air
Density = 1.205e-3

# Interface between this layer and the one below it, using the same syntax
# as Bottom and Top. Off the map, the ground is flat at z = 0.
Interface = dem
Interface = 0

#######################
# Optional Parameters #
#######################

# Scale makes the density fall off exponentially with height above
# Reference, by a factor of e every Scale.
Scale = 10.4e3
# Reference = 0

# Description of the layer. Defaults to "Layer <index>".
# Description = Atmosphere

# Probe shapes. trace reports the distance from each ray to each of them.
[Sphere "detector"]
X = 0
Y = 0
Z = 10
Radius = 5

[Box "hall"]
# Center and full widths of the box.
X = 100
Y = 0
Z = -20
XWidth = 40
YWidth = 20
ZWidth = 10
# Euler angles in radians.
# Phi = 0
# Theta = 0
# Psi = 0.7854`

type GeometryConfig struct {
	// Required
	Layers []string

	// Optional
	Bottom, Top []string
}

func (con *GeometryConfig) CheckInit(layers map[string]*LayerConfig) error {
	if len(con.Layers) == 0 {
		return fmt.Errorf("[Geometry] must list at least one 'Layers' entry.")
	}

	seen := map[string]bool{}
	for i, name := range con.Layers {
		if _, ok := layers[name]; !ok {
			return fmt.Errorf(
				"[Geometry] lists layer '%s', but there is no [Layer \"%s\"].",
				name, name,
			)
		} else if seen[name] {
			return fmt.Errorf(
				"[Geometry] lists layer '%s' more than once.", name,
			)
		}
		seen[name] = true

		if i == 0 && len(layers[name].Interface) > 0 {
			return fmt.Errorf(
				"Layer '%s' is the lowest layer and can't have an " +
					"'Interface'. Use 'Bottom' in [Geometry] instead.", name,
			)
		} else if i > 0 && len(layers[name].Interface) == 0 {
			return fmt.Errorf(
				"Layer '%s' needs an 'Interface' with the layer below it.",
				name,
			)
		}
	}

	return nil
}

type GridConfig struct {
	// Either
	File string
	// or
	XMin, XMax, YMin, YMax float64
	NX, NY int

	// Optional
	Elevation float64
	Name string
}

func (con *GridConfig) CheckInit(name string) error {
	con.Name = name
	if con.File != "" { return nil }

	if con.NX < 2 || con.NY < 2 {
		return fmt.Errorf(
			"Grid '%s' needs a 'File' or at least two nodes along each " +
				"axis, but NX = %d and NY = %d.", name, con.NX, con.NY,
		)
	} else if !(con.XMax > con.XMin) || !(con.YMax > con.YMin) {
		return fmt.Errorf(
			"Grid '%s' has an empty range: x in [%g, %g], y in [%g, %g].",
			name, con.XMin, con.XMax, con.YMin, con.YMax,
		)
	}
	return nil
}

type MaterialConfig struct {
	// Required
	Composition []string

	// Optional
	Name string

	components []geometry.Component
}

func (con *MaterialConfig) CheckInit(name string) error {
	con.Name = name
	con.components = make([]geometry.Component, len(con.Composition))

	for i, line := range con.Composition {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf(
				"Composition '%s' of Material '%s' must be a weight " +
					"followed by a symbol.", line, name,
			)
		}

		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf(
				"Composition '%s' of Material '%s' has an invalid weight.",
				line, name,
			)
		}
		con.components[i] = geometry.Component{Weight: w, Element: fields[1]}
	}

	return nil
}

// Material returns the material described by con. CheckInit must have been
// called.
func (con *MaterialConfig) Material() geometry.Material {
	return geometry.Material{Name: con.Name, Composition: con.components}
}

type LayerConfig struct {
	// Required
	Material string
	Density float64

	// Optional
	Interface []string
	Scale, Reference float64
	Description string
	Name string
}

func (con *LayerConfig) CheckInit(
	name string, materials map[string]*MaterialConfig,
) error {
	con.Name = name

	if _, ok := materials[con.Material]; !ok {
		return fmt.Errorf(
			"Layer '%s' uses Material '%s', which doesn't exist.",
			name, con.Material,
		)
	} else if !(con.Density > 0) || math.IsInf(con.Density, 0) {
		return fmt.Errorf(
			"Need to specify a positive Density for Layer '%s'.", name,
		)
	} else if con.Scale < 0 || math.IsInf(con.Scale, 0) {
		return fmt.Errorf(
			"Layer '%s' given an invalid Scale, %g.", name, con.Scale,
		)
	}

	return nil
}

type SphereConfig struct {
	// Required
	X, Y, Z, Radius float64

	// Optional
	Name string
}

func (con *SphereConfig) CheckInit(name string) error {
	con.Name = name
	if !(con.Radius > 0) {
		return fmt.Errorf(
			"Need to specify a positive radius for Sphere '%s'.", name,
		)
	}
	return nil
}

type BoxConfig struct {
	// Required
	X, Y, Z float64
	XWidth, YWidth, ZWidth float64

	// Optional
	Phi, Theta, Psi float64
	Name string
}

func (con *BoxConfig) CheckInit(name string) error {
	con.Name = name
	if con.XWidth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive XWidth for Box '%s'", name,
		)
	} else if con.YWidth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive YWidth for Box '%s'", name,
		)
	} else if con.ZWidth <= 0 {
		return fmt.Errorf(
			"Need to specify a positive ZWidth for Box '%s'", name,
		)
	}
	return nil
}

// Config is the contents of a geometry file.
type Config struct {
	Geometry GeometryConfig
	Grid map[string]*GridConfig
	Material map[string]*MaterialConfig
	Layer map[string]*LayerConfig
	Sphere map[string]*SphereConfig
	Box map[string]*BoxConfig
}

// ReadConfig reads and checks the geometry file fname.
func ReadConfig(fname string) (*Config, error) {
	con := &Config{}
	if err := gcfg.ReadFileInto(con, fname); err != nil { return nil, err }
	if err := con.CheckInit(); err != nil { return nil, err }
	return con, nil
}

// ParseConfig reads and checks a geometry file which has already been
// loaded into memory.
func ParseConfig(text string) (*Config, error) {
	con := &Config{}
	if err := gcfg.ReadStringInto(con, text); err != nil { return nil, err }
	if err := con.CheckInit(); err != nil { return nil, err }
	return con, nil
}

// CheckInit checks every section and fills in their names.
func (con *Config) CheckInit() error {
	for _, name := range sortedKeys(con.Grid) {
		if err := con.Grid[name].CheckInit(name); err != nil { return err }
	}
	for _, name := range sortedKeys(con.Material) {
		if err := con.Material[name].CheckInit(name); err != nil { return err }
	}
	for _, name := range sortedKeys(con.Layer) {
		err := con.Layer[name].CheckInit(name, con.Material)
		if err != nil { return err }
	}
	for _, name := range sortedKeys(con.Sphere) {
		if err := con.Sphere[name].CheckInit(name); err != nil { return err }
	}
	for _, name := range sortedKeys(con.Box) {
		if err := con.Box[name].CheckInit(name); err != nil { return err }
	}

	return con.Geometry.CheckInit(con.Layer)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m { keys = append(keys, k) }
	sort.Strings(keys)
	return keys
}
