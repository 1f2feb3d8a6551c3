package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/strata/topography"
)

type constDensity float64

func (d constDensity) Value(r3.Vec) float64 { return float64(d) }
func (d constDensity) ColumnDepth(_, _ r3.Vec, l float64) float64 {
	return float64(d) * l
}

var (
	rock = Material{Name: "rock", Composition: []Component{{1, "SiO2"}}}
	air = Material{
		Name: "air", Composition: []Component{{0.76, "N"}, {0.24, "O"}},
	}
	down = r3.Vec{Z: -1}
	up = r3.Vec{Z: 1}
)

// twoLayers returns rock below a flat interface at z = 10 and air above it.
func twoLayers(t *testing.T) *Stratified {
	g := NewStratified(rock, constDensity(2.65), "")
	err := g.PushLayer(
		[]topography.Source{topography.Constant(10)}, air, constDensity(1e-3), "",
	)
	require.NoError(t, err)
	return g
}

// tiltedMap returns a map over [0, 10] x [0, 10] with z = x.
func tiltedMap(t *testing.T) *topography.Map {
	m, err := topography.NewMap(0, 10, 11, 0, 10, 11)
	require.NoError(t, err)
	for i := 0; i < 11; i++ {
		for j := 0; j < 11; j++ { m.Set(i, j, float64(j)) }
	}
	return m
}

func TestNewStratified(t *testing.T) {
	g := NewStratified(rock, constDensity(2.65), "")
	assert.Equal(t, 1, len(g.Sectors()))
	assert.Equal(t, 2, len(g.Interfaces()))
	assert.Equal(t, "Layer 0", g.Sectors()[0].Description)
	assert.Equal(t, []Material{rock}, g.Materials())
	assert.Equal(t, DefaultMinStep, g.MinStep())

	_, oks := g.Elevations(1, 2)
	assert.Equal(t, []bool{false, false}, oks)

	g = NewStratified(rock, constDensity(2.65), "ground")
	assert.Equal(t, "ground", g.Sectors()[0].Description)
}

func TestPushLayer(t *testing.T) {
	g := twoLayers(t)
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Constant(20)}, rock, constDensity(1), "cap",
	))

	sectors := g.Sectors()
	require.Equal(t, 3, len(sectors))
	assert.Equal(t, len(sectors)+1, len(g.Interfaces()))
	assert.Equal(t, "Layer 1", sectors[1].Description)
	assert.Equal(t, "cap", sectors[2].Description)

	// rock is reused, air is new.
	assert.Equal(t, 2, len(g.Materials()))
	assert.Equal(t, 0, sectors[0].Material)
	assert.Equal(t, 1, sectors[1].Material)
	assert.Equal(t, 0, sectors[2].Material)

	assert.Equal(t, topography.Interface{}, g.Interfaces()[0])
	assert.Equal(t, topography.Interface{
		{Kind: topography.ConstantEntry, Value: 20},
	}, g.Interfaces()[2])
	assert.Equal(t, topography.Interface{}, g.Interfaces()[3])
}

func TestPushLayerMaterialConflict(t *testing.T) {
	g := twoLayers(t)
	wetRock := Material{Name: "rock", Composition: []Component{{1, "H2O"}}}

	err := g.PushLayer(
		[]topography.Source{topography.Constant(20)},
		wetRock, constDensity(1), "",
	)
	assert.True(t, errors.Is(err, ErrMaterialConflict))
	assert.Equal(t, 2, len(g.Sectors()))
	assert.Equal(t, 3, len(g.Interfaces()))
	assert.Equal(t, 2, len(g.Materials()))
}

func TestPushLayerNilMap(t *testing.T) {
	g := NewStratified(rock, constDensity(1), "")
	err := g.PushLayer(
		[]topography.Source{topography.Grid(nil)}, air, constDensity(1), "",
	)
	assert.True(t, errors.Is(err, topography.ErrShape))
	assert.Equal(t, 1, len(g.Sectors()))

	assert.Error(t, g.SetTop([]topography.Source{topography.Grid(nil)}))
	assert.Error(t, g.SetBottom([]topography.Source{topography.Grid(nil)}))
}

func TestMapPooling(t *testing.T) {
	g := NewStratified(rock, constDensity(1), "")
	m := tiltedMap(t)
	require.NoError(t, g.SetBottom([]topography.Source{
		topography.GridOffset(m, -5),
	}))
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Grid(m)}, air, constDensity(1), "",
	))
	assert.Equal(t, []*topography.Map{m}, g.Grids())

	twin := tiltedMap(t)
	require.NoError(t, g.SetTop([]topography.Source{topography.Grid(twin)}))
	assert.Equal(t, []*topography.Map{m, twin}, g.Grids())
	assert.Equal(t, 1.0, g.MinStep())
}

func TestElevations(t *testing.T) {
	g := NewStratified(rock, constDensity(1), "")
	m := tiltedMap(t)
	require.NoError(t, g.SetBottom([]topography.Source{
		topography.GridOffset(m, -5), topography.Constant(-100),
	}))
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Grid(m)}, air, constDensity(1), "",
	))

	zs, oks := g.Elevations(3, 4)
	assert.Equal(t, []bool{true, true, false}, oks)
	assert.InDelta(t, -2, zs[0], 1e-12)
	assert.InDelta(t, 3, zs[1], 1e-12)

	zs, oks = g.Elevations(30, 4)
	assert.Equal(t, []bool{true, false, false}, oks)
	assert.Equal(t, -100.0, zs[0])
}

func TestLocateFlat(t *testing.T) {
	tr := NewStratifiedTracer(twoLayers(t))

	tests := []struct {
		z float64
		sector int
		distance float64
	}{
		{5, 0, 5},
		{15, 1, 5},
		{10, 0, DefaultMinStep},
		{-1e6, 0, 1e6 + 10},
	}

	for i := range tests {
		sector, ok, distance := tr.Locate(r3.Vec{X: 3, Y: -7, Z: tests[i].z})
		assert.True(t, ok, "%d", i)
		assert.Equal(t, tests[i].sector, sector, "%d", i)
		assert.InDelta(t, tests[i].distance, distance, 1e-9, "%d", i)
	}
}

func TestLocateBounded(t *testing.T) {
	g := twoLayers(t)
	require.NoError(t, g.SetBottom([]topography.Source{topography.Constant(0)}))
	require.NoError(t, g.SetTop([]topography.Source{topography.Constant(20)}))
	tr := NewStratifiedTracer(g)

	_, ok, distance := tr.Locate(r3.Vec{Z: -1})
	assert.False(t, ok)
	assert.Equal(t, 1.0, distance)

	_, ok, _ = tr.Locate(r3.Vec{Z: 0})
	assert.False(t, ok)

	_, ok, distance = tr.Locate(r3.Vec{Z: 25})
	assert.False(t, ok)
	assert.Equal(t, 5.0, distance)

	sector, ok, distance := tr.Locate(r3.Vec{Z: 18})
	assert.True(t, ok)
	assert.Equal(t, 1, sector)
	assert.Equal(t, 2.0, distance)
}

func TestLocateFallback(t *testing.T) {
	g := NewStratified(rock, constDensity(1), "")
	m := tiltedMap(t)
	require.NoError(t, g.PushLayer([]topography.Source{
		topography.Grid(m), topography.Constant(100),
	}, air, constDensity(1), ""))
	tr := NewStratifiedTracer(g)

	sector, ok, _ := tr.Locate(r3.Vec{X: 5, Y: 5, Z: 4})
	assert.True(t, ok)
	assert.Equal(t, 0, sector)

	sector, _, _ = tr.Locate(r3.Vec{X: 5, Y: 5, Z: 6})
	assert.Equal(t, 1, sector)

	sector, _, distance := tr.Locate(r3.Vec{X: 20, Y: 5, Z: 50})
	assert.Equal(t, 0, sector)
	assert.Equal(t, 50.0, distance)
}

func TestLocateUndefinedTop(t *testing.T) {
	g := twoLayers(t)
	require.NoError(t, g.SetTop([]topography.Source{
		topography.GridOffset(tiltedMap(t), 20),
	}))
	tr := NewStratifiedTracer(g)

	sector, ok, _ := tr.Locate(r3.Vec{X: 5, Y: 5, Z: 11})
	assert.True(t, ok)
	assert.Equal(t, 1, sector)

	// Off the map, nothing is found above the ray.
	_, ok, distance := tr.Locate(r3.Vec{X: -5, Y: 5, Z: 11})
	assert.False(t, ok)
	assert.Equal(t, 1.0, distance)
}

func TestLocateMemo(t *testing.T) {
	g := NewStratified(rock, constDensity(1), "")
	m := tiltedMap(t)
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Grid(m)}, air, constDensity(1), "",
	))
	tr := NewStratifiedTracer(g)

	sector, _, _ := tr.Locate(r3.Vec{X: 5, Y: 5, Z: 4})
	assert.Equal(t, 0, sector)

	require.NoError(t, m.Fill(make([]float64, 121)))

	// Same column: the previous read is reused.
	sector, _, _ = tr.Locate(r3.Vec{X: 5, Y: 5, Z: 4.5})
	assert.Equal(t, 0, sector)

	sector, _, _ = tr.Locate(r3.Vec{X: 6, Y: 5, Z: 4.5})
	assert.Equal(t, 1, sector)
}

func TestNoLayers(t *testing.T) {
	tr := NewStratified(rock, constDensity(1), "").NewTracer()
	tr.Reset(r3.Vec{X: 1, Y: 2, Z: 3}, down)

	sector, ok := tr.Sector()
	assert.True(t, ok)
	assert.Equal(t, 0, sector)
	assert.Equal(t, 100.0, tr.Trace(100))
	assert.True(t, math.IsInf(tr.Trace(math.Inf(1)), 1))
}

func TestPushLayerKeepsTop(t *testing.T) {
	g := twoLayers(t)
	require.NoError(t, g.SetTop(
		[]topography.Source{topography.Constant(100)},
	))
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Constant(50)}, rock, constDensity(1), "",
	))

	assert.Equal(t, []topography.Interface{
		{},
		{{Kind: topography.ConstantEntry, Value: 10}},
		{{Kind: topography.ConstantEntry, Value: 50}},
		{{Kind: topography.ConstantEntry, Value: 100}},
	}, g.Interfaces())

	tr := g.NewTracer()
	sector, ok, _ := tr.Locate(r3.Vec{Z: 75})
	assert.True(t, ok)
	assert.Equal(t, 2, sector)
	_, ok, _ = tr.Locate(r3.Vec{Z: 500})
	assert.False(t, ok)
}

func TestTraceFlat(t *testing.T) {
	tr := NewStratifiedTracer(twoLayers(t))
	tr.Reset(r3.Vec{Z: 15}, down)

	sector, ok := tr.Sector()
	require.True(t, ok)
	require.Equal(t, 1, sector)

	// Stopping short keeps the sector.
	step := tr.Trace(2)
	assert.Equal(t, 2.0, step)
	tr.Update(step, down)
	sector, _ = tr.Sector()
	assert.Equal(t, 1, sector)
	assert.InDelta(t, 13, tr.Position().Z, 1e-12)

	step = tr.Trace(math.Inf(1))
	assert.InDelta(t, 3, step, 1e-9)
	tr.Update(1, down)
	sector, _ = tr.Sector()
	assert.Equal(t, 1, sector)
	assert.InDelta(t, 12, tr.Position().Z, 1e-12)

	step = tr.Trace(math.Inf(1))
	assert.InDelta(t, 2, step, 1e-9)
	tr.Update(step, up)
	sector, _ = tr.Sector()
	assert.Equal(t, 0, sector)
	assert.Equal(t, up, tr.Direction())
}

func TestTraceUpwards(t *testing.T) {
	tr := NewStratifiedTracer(twoLayers(t))
	tr.Reset(r3.Vec{Z: 5}, up)

	total := 0.0
	for i := 0; i < 10; i++ {
		if sector, _ := tr.Sector(); sector == 1 { break }
		step := tr.Trace(math.Inf(1))
		total += step
		tr.Update(step, up)
	}

	sector, ok := tr.Sector()
	assert.True(t, ok)
	assert.Equal(t, 1, sector)
	assert.InDelta(t, 5, total, 1e-6)
	assert.True(t, tr.Position().Z > 10)
}

func TestTraceTilted(t *testing.T) {
	g := NewStratified(rock, constDensity(1), "")
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Grid(tiltedMap(t))},
		air, constDensity(1), "",
	))
	tr := g.NewTracer()

	// Horizontal ray in air heading towards the slope.
	dir := r3.Vec{X: 1}
	tr.Reset(r3.Vec{X: 2, Y: 5, Z: 5}, dir)
	sector, _ := tr.Sector()
	require.Equal(t, 1, sector)

	step := tr.Trace(math.Inf(1))
	assert.InDelta(t, 3, step, 1e-3)
	assert.True(t, step >= 3)

	tr.Update(step, dir)
	sector, ok := tr.Sector()
	assert.True(t, ok)
	assert.Equal(t, 0, sector)
	assert.InDelta(t, 5, tr.Position().X, 1e-3)
}

func TestTraceRidge(t *testing.T) {
	// z = 2 (5 - |x - 5|) over [0, 10] x [0, 10].
	m, err := topography.NewMap(0, 10, 11, 0, 10, 11)
	require.NoError(t, err)
	for i := 0; i < 11; i++ {
		for j := 0; j < 11; j++ {
			m.Set(i, j, 2*(5-math.Abs(float64(j)-5)))
		}
	}
	g := NewStratified(rock, constDensity(1), "")
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Grid(m)}, air, constDensity(1), "",
	))
	tr := g.NewTracer()

	// The ray starts 9 above the interface and clips the ridge top at
	// x = 4.5.
	dir := r3.Vec{X: 1}
	tr.Reset(r3.Vec{X: 0, Y: 5, Z: 9}, dir)
	sector, _ := tr.Sector()
	require.Equal(t, 1, sector)

	step := tr.Trace(math.Inf(1))
	assert.InDelta(t, 4.5, step, 1e-3)
	tr.Update(step, dir)
	sector, ok := tr.Sector()
	assert.True(t, ok)
	assert.Equal(t, 0, sector)
	located, _, _ := tr.Locate(r3.Vec{X: 5, Y: 5, Z: 9})
	assert.Equal(t, 0, located)

	// Walking the rest of the way across the map.
	lengths := []float64{0, step}
	remaining := 10 - step
	for remaining > 0 {
		step = tr.Trace(remaining)
		require.True(t, step > 0)
		sector, _ = tr.Sector()
		lengths[sector] += step
		remaining -= step
		tr.Update(step, dir)
	}
	assert.InDelta(t, 1, lengths[0], 2e-3)
	assert.InDelta(t, 9, lengths[1], 2e-3)
}

func TestTraceParallel(t *testing.T) {
	tr := NewStratifiedTracer(twoLayers(t))
	dir := r3.Vec{X: 1, Y: 1}

	tr.Reset(r3.Vec{Z: 15}, dir)
	assert.True(t, math.IsInf(tr.Trace(math.Inf(1)), 1))
	tr.Reset(r3.Vec{Z: 5}, dir)
	assert.True(t, math.IsInf(tr.Trace(math.Inf(1)), 1))
	assert.Equal(t, 7.0, tr.Trace(7))
}

func TestTraceMapEdge(t *testing.T) {
	// The interface is at 5 over the map and at 20 elsewhere.
	m, err := topography.NewMap(0, 10, 11, 0, 10, 11)
	require.NoError(t, err)
	for i := range m.Values() { m.Values()[i] = 5 }
	g := NewStratified(rock, constDensity(1), "")
	require.NoError(t, g.PushLayer(
		[]topography.Source{topography.Grid(m), topography.Constant(20)},
		air, constDensity(1), "",
	))
	tr := g.NewTracer()

	dir := r3.Vec{X: 1}
	tr.Reset(r3.Vec{X: 5, Y: 5, Z: 10}, dir)
	sector, _ := tr.Sector()
	require.Equal(t, 1, sector)

	step := tr.Trace(math.Inf(1))
	assert.InDelta(t, 5, step, 2e-3)
	assert.True(t, step >= 5)
	tr.Update(step, dir)
	sector, ok := tr.Sector()
	assert.True(t, ok)
	assert.Equal(t, 0, sector)

	// Past the map's edge nothing is ahead of the ray.
	assert.True(t, math.IsInf(tr.Trace(math.Inf(1)), 1))
}

func TestSectorIndex(t *testing.T) {
	g := twoLayers(t)
	i, ok := SectorIndex(g, "Layer 1")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = SectorIndex(g, "mantle")
	assert.False(t, ok)
}
