package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCubicSpline_SingleSample(t *testing.T) {
	s := newCubicSpline([]float64{1000}, []float64{250})

	assert.InDelta(t, 250.0, s.at(0), 1e-12)
	assert.InDelta(t, 250.0, s.at(1000), 1e-12)
	assert.InDelta(t, 250.0, s.at(9000), 1e-12)
}

func TestCubicSpline_TwoSamplesLinear(t *testing.T) {
	s := newCubicSpline([]float64{1000, 2000}, []float64{100, 200})

	assert.InDelta(t, 100.0, s.at(1000), 1e-9)
	assert.InDelta(t, 150.0, s.at(1500), 1e-9)
	assert.InDelta(t, 200.0, s.at(2000), 1e-9)
	// Linear extrapolation on both sides.
	assert.InDelta(t, 50.0, s.at(500), 1e-9)
	assert.InDelta(t, 250.0, s.at(2500), 1e-9)
}

func TestCubicSpline_PassesThroughKnots(t *testing.T) {
	xs := []float64{1000, 2000, 3000, 4000, 5000}
	ys := []float64{200, 250, 300, 280, 240}
	s := newCubicSpline(xs, ys)

	for i := range xs {
		assert.InDelta(t, ys[i], s.at(xs[i]), 1e-9, "knot %d", i)
	}
}

func TestCubicSpline_SmoothBetweenKnots(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 4, 9}
	s := newCubicSpline(xs, ys)

	// Monotone data stays monotone across a fine sweep; the natural
	// spline should not oscillate here.
	prev := s.at(0)
	for x := 0.05; x <= 3.0; x += 0.05 {
		cur := s.at(x)
		assert.GreaterOrEqual(t, cur, prev-1e-9, "at x=%v", x)
		prev = cur
	}
}
