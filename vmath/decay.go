package vmath

import "math"

// ExpDecay converges a toward b with the given half-life. After exactly
// halfLife seconds the remaining distance is halved, regardless of how the
// elapsed time was split across frames.
func ExpDecay(a, b, dt, halfLife float64) float64 {
	return b + (a-b)*math.Exp2(-dt/halfLife)
}

// ModExpDecay is ExpDecay on a circular quantity with the given period: the
// difference is wrapped to the shortest path before decaying and the result is
// re-wrapped into [0, period).
func ModExpDecay(a, b, dt, halfLife, period float64) float64 {
	diff := math.Mod(b-a, period)
	if diff > period/2 {
		diff -= period
	} else if diff < -period/2 {
		diff += period
	}
	out := math.Mod(ExpDecay(0, diff, dt, halfLife)+a, period)
	if out < 0 {
		out += period
	}
	return out
}
