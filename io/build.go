package io

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/strata/density"
	"github.com/phil-mansfield/strata/geom"
	"github.com/phil-mansfield/strata/geometry"
	"github.com/phil-mansfield/strata/topography"
)

// Probe is a named shape.
type Probe struct {
	Name string
	Shape geom.Shape
}

// Maps loads or creates every map in the config.
func (con *Config) Maps() (map[string]*topography.Map, error) {
	maps := map[string]*topography.Map{}
	for _, name := range sortedKeys(con.Grid) {
		g := con.Grid[name]

		var (
			m *topography.Map
			err error
		)
		if g.File != "" {
			m, err = topography.ReadMap(g.File)
		} else {
			m, err = topography.NewMap(g.XMin, g.XMax, g.NX, g.YMin, g.YMax, g.NY)
			if err == nil {
				zs := m.Values()
				for i := range zs { zs[i] = g.Elevation }
			}
		}
		if err != nil { return nil, fmt.Errorf("Grid '%s': %w", name, err) }

		ny, nx := m.Shape()
		log.Debugf("Loaded grid '%s' with %d x %d nodes", name, nx, ny)
		maps[name] = m
	}
	return maps, nil
}

// ParseChain converts the entries of a fallback chain into sources. Each
// entry is either a number, a map name, or a map name followed by an offset.
func ParseChain(
	entries []string, maps map[string]*topography.Map,
) ([]topography.Source, error) {
	sources := make([]topography.Source, len(entries))
	for i, entry := range entries {
		fields := strings.Fields(entry)

		switch len(fields) {
		case 1:
			if z, err := strconv.ParseFloat(fields[0], 64); err == nil {
				sources[i] = topography.Constant(z)
				continue
			}
			m, ok := maps[fields[0]]
			if !ok {
				return nil, fmt.Errorf(
					"Interface entry '%s' is neither a number nor a Grid.", entry,
				)
			}
			sources[i] = topography.Grid(m)

		case 2:
			m, ok := maps[fields[0]]
			if !ok {
				return nil, fmt.Errorf(
					"Interface entry '%s' refers to Grid '%s', which doesn't " +
						"exist.", entry, fields[0],
				)
			}
			offset, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf(
					"Interface entry '%s' has an invalid offset.", entry,
				)
			}
			sources[i] = topography.GridOffset(m, offset)

		default:
			return nil, fmt.Errorf(
				"Interface entry '%s' must have one or two fields.", entry,
			)
		}
	}
	return sources, nil
}

func (con *LayerConfig) densityModel() (geometry.DensityModel, error) {
	if con.Scale == 0 { return density.NewUniform(con.Density) }
	return density.NewGradient(
		con.Density, con.Scale, r3.Vec{Z: con.Reference}, r3.Vec{Z: 1},
	)
}

// Stratified builds the geometry described by the config. maps are the
// config's maps, as returned by Maps.
func (con *Config) Stratified(
	maps map[string]*topography.Map,
) (*geometry.Stratified, error) {
	var g *geometry.Stratified

	for i, name := range con.Geometry.Layers {
		layer := con.Layer[name]
		material := con.Material[layer.Material].Material()
		rho, err := layer.densityModel()
		if err != nil { return nil, fmt.Errorf("Layer '%s': %w", name, err) }

		if i == 0 {
			g = geometry.NewStratified(material, rho, layer.Description)
			continue
		}

		sources, err := ParseChain(layer.Interface, maps)
		if err != nil { return nil, fmt.Errorf("Layer '%s': %w", name, err) }
		err = g.PushLayer(sources, material, rho, layer.Description)
		if err != nil { return nil, fmt.Errorf("Layer '%s': %w", name, err) }
	}

	if len(con.Geometry.Bottom) > 0 {
		sources, err := ParseChain(con.Geometry.Bottom, maps)
		if err != nil { return nil, fmt.Errorf("Bottom: %w", err) }
		if err = g.SetBottom(sources); err != nil { return nil, err }
	}
	if len(con.Geometry.Top) > 0 {
		sources, err := ParseChain(con.Geometry.Top, maps)
		if err != nil { return nil, fmt.Errorf("Top: %w", err) }
		if err = g.SetTop(sources); err != nil { return nil, err }
	}

	log.Infof(
		"Built geometry with %d layers, %d materials, and %d grids",
		len(g.Sectors()), len(g.Materials()), len(g.Grids()),
	)
	return g, nil
}

// Probes returns the config's spheres followed by its boxes, each sorted by
// name.
func (con *Config) Probes() ([]Probe, error) {
	probes := []Probe{}
	for _, name := range sortedKeys(con.Sphere) {
		s := con.Sphere[name]
		shape, err := geom.NewSphere(r3.Vec{X: s.X, Y: s.Y, Z: s.Z}, s.Radius)
		if err != nil { return nil, fmt.Errorf("Sphere '%s': %w", name, err) }
		probes = append(probes, Probe{name, shape})
	}
	for _, name := range sortedKeys(con.Box) {
		b := con.Box[name]
		shape, err := geom.NewBox(
			r3.Vec{X: b.X, Y: b.Y, Z: b.Z},
			r3.Vec{X: b.XWidth / 2, Y: b.YWidth / 2, Z: b.ZWidth / 2},
			r3.Vec{X: b.Phi, Y: b.Theta, Z: b.Psi},
		)
		if err != nil { return nil, fmt.Errorf("Box '%s': %w", name, err) }
		probes = append(probes, Probe{name, shape})
	}
	return probes, nil
}
