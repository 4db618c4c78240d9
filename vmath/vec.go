// Package vmath provides the 2D vector and interpolation helpers used by the
// simulation. Vectors are mutable: in-place methods return the receiver for
// chaining, so callers that need to preserve an original must Clone first.
package vmath

import "math"

// Vec2 is a mutable 2D vector.
type Vec2 struct {
	X, Y float64
}

// NewVec2 returns a vector with the given components.
func NewVec2(x, y float64) *Vec2 {
	return &Vec2{X: x, Y: y}
}

// Clone returns an independent copy of v.
func (v *Vec2) Clone() *Vec2 {
	return &Vec2{X: v.X, Y: v.Y}
}

// Set overwrites both components.
func (v *Vec2) Set(x, y float64) *Vec2 {
	v.X = x
	v.Y = y
	return v
}

// Add adds other to v in place.
func (v *Vec2) Add(other *Vec2) *Vec2 {
	v.X += other.X
	v.Y += other.Y
	return v
}

// Sub subtracts other from v in place.
func (v *Vec2) Sub(other *Vec2) *Vec2 {
	v.X -= other.X
	v.Y -= other.Y
	return v
}

// Scale multiplies both components by s.
func (v *Vec2) Scale(s float64) *Vec2 {
	v.X *= s
	v.Y *= s
	return v
}

// ScaleXY multiplies the components by separate per-axis factors.
func (v *Vec2) ScaleXY(sx, sy float64) *Vec2 {
	v.X *= sx
	v.Y *= sy
	return v
}

// Div divides both components by d. Dividing by a zero norm is the caller's
// bug; guard with a zero-distance check before normalizing.
func (v *Vec2) Div(d float64) *Vec2 {
	v.X /= d
	v.Y /= d
	return v
}

// Norm returns the Euclidean length.
func (v *Vec2) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// NormSq returns the squared length, avoiding the sqrt.
func (v *Vec2) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize scales v to unit length. Zero vectors are left unchanged.
func (v *Vec2) Normalize() *Vec2 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Div(n)
}

// Lerp moves v linearly toward target by fraction t.
func (v *Vec2) Lerp(target *Vec2, t float64) *Vec2 {
	v.X += (target.X - v.X) * t
	v.Y += (target.Y - v.Y) * t
	return v
}

// ExpDecay relaxes v toward target with the given half-life, independent of
// the frame delta.
func (v *Vec2) ExpDecay(target *Vec2, dt, halfLife float64) *Vec2 {
	v.X = ExpDecay(v.X, target.X, dt, halfLife)
	v.Y = ExpDecay(v.Y, target.Y, dt, halfLife)
	return v
}

// Rotate rotates v by angle radians counter-clockwise.
func (v *Vec2) Rotate(angle float64) *Vec2 {
	sin, cos := math.Sincos(angle)
	x := v.X*cos - v.Y*sin
	v.Y = v.X*sin + v.Y*cos
	v.X = x
	return v
}

// Angle returns the heading of v in radians.
func (v *Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleTo returns the heading from v to other in radians.
func (v *Vec2) AngleTo(other *Vec2) float64 {
	return math.Atan2(other.Y-v.Y, other.X-v.X)
}

// Dot returns the dot product with other.
func (v *Vec2) Dot(other *Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// DistanceTo returns the Euclidean distance between v and other.
func (v *Vec2) DistanceTo(other *Vec2) float64 {
	dx := other.X - v.X
	dy := other.Y - v.Y
	return math.Sqrt(dx*dx + dy*dy)
}
