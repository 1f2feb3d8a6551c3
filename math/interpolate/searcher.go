package interpolate

// searcher locates points along a uniformly spaced sequence of nodes.
type searcher struct {
	x0, x1, dx float64
	n int
}

// unifInit initializes a searcher over n nodes spanning [x0, x1].
func (s *searcher) unifInit(x0, x1 float64, n int) {
	if n < 2 {
		panic("A uniform axis needs at least two nodes.")
	} else if !(x1 > x0) {
		panic("A uniform axis must be strictly increasing.")
	}
	s.x0, s.x1, s.n = x0, x1, n
	s.dx = (x1 - x0) / float64(n-1)
}

// search returns the index of the cell containing x along with the fractional
// position of x inside that cell. ok is false if x is outside of [x0, x1]
// (or NaN).
func (s *searcher) search(x float64) (i int, h float64, ok bool) {
	if !(x >= s.x0 && x <= s.x1) { return 0, 0, false }

	if x == s.x1 { return s.n - 2, 1, true }

	u := (x - s.x0) / s.dx
	i = int(u)
	if i > s.n-2 { i = s.n - 2 }
	return i, u - float64(i), true
}

// val returns the position of the ith node. The end nodes are exact.
func (s *searcher) val(i int) float64 {
	if i == s.n-1 { return s.x1 }
	return s.x0 + float64(i)*s.dx
}
