package interpolate

// BiInterpolator is a two dimensional interpolator which is only defined over
// a bounded region. Evaluating it outside of that region returns ok = false.
type BiInterpolator interface {
	Eval(x, y float64) (v float64, ok bool)
}

var (
	_ BiInterpolator = &BiLinear{}
)
