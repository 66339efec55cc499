package utils

import (
	"math"
)

func Deg(rads float64) float64 {
	return rads / (math.Pi / 180)
}

func Rad(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// Clamp returns v limited to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b. The ratio is clamped, so the result never
// overshoots either end.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// SmoothDamp moves current towards target like a critically damped spring which
// settles in roughly smoothTime seconds. velocity is carried between calls by
// the caller.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}

	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	// Don't overshoot.
	if (target-current > 0) == (out > target) {
		out = target
		*velocity = (out - target) / dt
	}

	return out
}
