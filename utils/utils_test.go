package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegRad(t *testing.T) {
	assert.InDelta(t, math.Pi, Rad(180), 0.000001)
	assert.InDelta(t, 90.0, Deg(math.Pi/2), 0.000001)
	assert.InDelta(t, 42.0, Deg(Rad(42)), 0.000001)
}

func TestLerp(t *testing.T) {
	type eg struct {
		a, b, t float64
		exp     float64
	}

	examples := []eg{
		{0, 10, 0, 0},
		{0, 10, 0.5, 5},
		{0, 10, 1, 10},
		{0, 10, 2, 10},
		{0, 10, -1, 0},
	}

	for i, x := range examples {
		assert.InDelta(t, x.exp, Lerp(x.a, x.b, x.t), 0.000001, "example %d", i+1)
	}
}

func TestSmoothDampConverges(t *testing.T) {
	v := 0.0
	cur := 0.0
	for i := 0; i < 600; i++ {
		cur = SmoothDamp(cur, 10, &v, 0.35, 1.0/60)
		assert.LessOrEqual(t, cur, 10.0)
	}

	assert.InDelta(t, 10.0, cur, 0.01)
}

func TestSmoothDampZeroDelta(t *testing.T) {
	v := 1.0
	assert.Equal(t, 3.0, SmoothDamp(3, 10, &v, 0.35, 0))
	assert.Equal(t, 1.0, v)
}
