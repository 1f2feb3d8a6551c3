package topography

import (
	"fmt"
)

type sourceKind int

const (
	constantSource sourceKind = iota
	mapSource
	offsetSource
)

// Source is one entry of an interface's fallback chain, as written by the
// user: a constant elevation, a map, or a map shifted by a constant offset.
type Source struct {
	kind sourceKind
	z float64
	m *Map
}

// Constant returns a Source with a flat elevation z. It is defined
// everywhere.
func Constant(z float64) Source { return Source{kind: constantSource, z: z} }

// Grid returns a Source which takes its elevation from m. It is only defined
// where m is.
func Grid(m *Map) Source { return Source{kind: mapSource, m: m} }

// GridOffset returns a Source which takes its elevation from m shifted by
// offset.
func GridOffset(m *Map, offset float64) Source {
	return Source{kind: offsetSource, m: m, z: offset}
}

func (s Source) String() string {
	switch s.kind {
	case constantSource:
		return fmt.Sprintf("Constant(%g)", s.z)
	case mapSource:
		return fmt.Sprintf("Grid(%p)", s.m)
	default:
		return fmt.Sprintf("GridOffset(%p, %g)", s.m, s.z)
	}
}

// EntryKind tags the variants of a resolved interface entry.
type EntryKind int

const (
	ConstantEntry EntryKind = iota
	GridEntry
	OffsetEntry
)

// Entry is a resolved Source. Grid entries refer to maps by their index in
// a Pool.
type Entry struct {
	Kind EntryKind
	// Index is the pool index of the map (grid entries only).
	Index int
	// Value is the elevation of constant entries and the offset of offset
	// entries.
	Value float64
}

// Interface is a fallback chain: entries are tried in order and the first
// one which is defined gives the interface's elevation. An empty Interface is
// undefined everywhere.
type Interface []Entry

// Lookup returns the elevation of the pool map with the given index.
type Lookup func(index int) (z float64, ok bool)

// Eval evaluates the chain. Maps are only looked up when a chain reaches
// them.
func (iface Interface) Eval(lookup Lookup) (z float64, ok bool) {
	for _, e := range iface {
		switch e.Kind {
		case ConstantEntry:
			return e.Value, true
		case GridEntry:
			if z, ok := lookup(e.Index); ok { return z, true }
		case OffsetEntry:
			if z, ok := lookup(e.Index); ok { return z + e.Value, true }
		}
	}
	return 0, false
}

// UsesMaps returns true if any entry of the chain refers to a map.
func (iface Interface) UsesMaps() bool {
	for _, e := range iface {
		if e.Kind != ConstantEntry { return true }
	}
	return false
}

// CheckSources returns an error if any source of a chain refers to a nil map.
func CheckSources(sources []Source) error {
	for i, s := range sources {
		if s.kind != constantSource && s.m == nil {
			return fmt.Errorf("%w: entry %d of chain has no map", ErrShape, i)
		}
	}
	return nil
}
