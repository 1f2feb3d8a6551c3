package topography

// Pool interns the maps used by a geometry. Maps are identified by pointer,
// so the same *Map passed twice gets one index while two distinct maps with
// identical values get two.
type Pool struct {
	maps []*Map
}

// Intern returns the index of m, adding it to the pool if needed.
func (p *Pool) Intern(m *Map) int {
	for i, mi := range p.maps {
		if mi == m { return i }
	}
	p.maps = append(p.maps, m)
	return len(p.maps) - 1
}

// Len returns the number of maps in the pool.
func (p *Pool) Len() int { return len(p.maps) }

// Map returns the map with index i.
func (p *Pool) Map(i int) *Map { return p.maps[i] }

// Maps returns the pooled maps in index order.
func (p *Pool) Maps() []*Map { return p.maps }

// Z evaluates every pooled map once at (x, y).
func (p *Pool) Z(x, y float64) (zs []float64, oks []bool) {
	zs, oks = make([]float64, len(p.maps)), make([]bool, len(p.maps))
	for i, m := range p.maps { zs[i], oks[i] = m.Z(x, y) }
	return zs, oks
}

// Resolve converts a user-facing fallback chain into an Interface whose maps
// are interned in pool.
func Resolve(sources []Source, pool *Pool) Interface {
	iface := make(Interface, len(sources))
	for i, s := range sources {
		switch s.kind {
		case constantSource:
			iface[i] = Entry{Kind: ConstantEntry, Value: s.z}
		case mapSource:
			iface[i] = Entry{Kind: GridEntry, Index: pool.Intern(s.m)}
		case offsetSource:
			iface[i] = Entry{
				Kind: OffsetEntry, Index: pool.Intern(s.m), Value: s.z,
			}
		}
	}
	return iface
}
