package engine

// cubicSpline is a natural cubic spline through a set of sample points
// with strictly increasing x values. Outside [x[0], x[n-1]] the boundary
// segment's polynomial is extended, so evaluation is defined on all of R.
// Extrapolated values can be non-physical; callers own that tradeoff.
type cubicSpline struct {
	xs []float64
	// Per-segment polynomial y = a + b·t + c·t² + d·t³ with t = x - xs[i].
	a, b, c, d []float64
}

// newCubicSpline fits a spline through (xs[i], ys[i]). Both slices must
// have the same non-zero length and xs must be strictly increasing.
func newCubicSpline(xs, ys []float64) *cubicSpline {
	n := len(xs)
	s := &cubicSpline{xs: xs}

	switch n {
	case 1:
		// Degenerate: constant.
		s.a = []float64{ys[0]}
		s.b = []float64{0}
		s.c = []float64{0}
		s.d = []float64{0}
		return s
	case 2:
		// Degenerate: linear.
		slope := (ys[1] - ys[0]) / (xs[1] - xs[0])
		s.a = []float64{ys[0]}
		s.b = []float64{slope}
		s.c = []float64{0}
		s.d = []float64{0}
		return s
	}

	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = xs[i+1] - xs[i]
	}

	// Solve the tridiagonal system for the second derivatives m[1..n-2]
	// (Thomas algorithm); natural boundary: m[0] = m[n-1] = 0.
	m := make([]float64, n)
	diag := make([]float64, n)
	rhs := make([]float64, n)
	for i := 1; i < n-1; i++ {
		diag[i] = 2 * (h[i-1] + h[i])
		rhs[i] = 6 * ((ys[i+1]-ys[i])/h[i] - (ys[i]-ys[i-1])/h[i-1])
	}
	for i := 2; i < n-1; i++ {
		w := h[i-1] / diag[i-1]
		diag[i] -= w * h[i-1]
		rhs[i] -= w * rhs[i-1]
	}
	for i := n - 2; i >= 1; i-- {
		m[i] = (rhs[i] - h[i]*m[i+1]) / diag[i]
	}

	s.a = make([]float64, n-1)
	s.b = make([]float64, n-1)
	s.c = make([]float64, n-1)
	s.d = make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		s.a[i] = ys[i]
		s.b[i] = (ys[i+1]-ys[i])/h[i] - h[i]*(2*m[i]+m[i+1])/6
		s.c[i] = m[i] / 2
		s.d[i] = (m[i+1] - m[i]) / (6 * h[i])
	}
	return s
}

// at evaluates the spline at x. Values left of the first sample use the
// first segment's polynomial, values right of the last sample the final
// segment's polynomial (polynomial extrapolation).
func (s *cubicSpline) at(x float64) float64 {
	i := s.segment(x)
	t := x - s.xs[i]
	return s.a[i] + t*(s.b[i]+t*(s.c[i]+t*s.d[i]))
}

func (s *cubicSpline) segment(x float64) int {
	last := len(s.a) - 1
	if x <= s.xs[0] {
		return 0
	}
	if x >= s.xs[len(s.xs)-1] {
		return last
	}
	// Binary search for the segment containing x.
	lo, hi := 0, last
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.xs[mid] <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
