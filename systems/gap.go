// Package systems provides the pure geometry and spatial-index helpers the
// simulation core is built on.
package systems

import (
	"math"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/vmath"
)

// Shape describes the collision footprint of a bubble for gap computation.
// Square bubbles are rotated squares with half-extent Radius; everything else
// is a circle of that radius.
type Shape struct {
	Pos      vmath.Vec2
	Radius   float64
	Rotation float64
	Kind     components.Kind
}

// Gap returns the shortest surface-to-surface distance between two bubbles
// along the line connecting their centers. Zero or negative means the
// surfaces touch or overlap.
func Gap(a, b Shape) float64 {
	aSquare := a.Kind == components.KindSquare
	bSquare := b.Kind == components.KindSquare

	switch {
	case !aSquare && !bSquare:
		return CircleGap(a.Pos, a.Radius, b.Pos, b.Radius)
	case aSquare && !bSquare:
		return SquareCircleGap(a.Pos, a.Radius, a.Rotation, b.Pos, b.Radius)
	case !aSquare && bSquare:
		return SquareCircleGap(b.Pos, b.Radius, b.Rotation, a.Pos, a.Radius)
	default:
		// Square vs square: the second square is approximated by its
		// incircle. Slightly permissive on corner hits, symmetric enough
		// for the toy.
		return SquareCircleGap(a.Pos, a.Radius, a.Rotation, b.Pos, b.Radius)
	}
}

// CircleGap returns the surface gap between two circles.
func CircleGap(a vmath.Vec2, ar float64, b vmath.Vec2, br float64) float64 {
	return a.DistanceTo(&b) - ar - br
}

// SquareCircleGap returns the surface gap between a rotated square with
// half-extent half and a circle of radius cr. The circle center is
// transformed into the square's local frame and measured against the
// axis-aligned box there; inside the box the distance goes negative.
func SquareCircleGap(sq vmath.Vec2, half, rotation float64, c vmath.Vec2, cr float64) float64 {
	local := c.Clone().Sub(&sq).Rotate(-rotation)
	return boxSignedDistance(math.Abs(local.X), math.Abs(local.Y), half) - cr
}

// boxSignedDistance is the signed distance from a point (given in the first
// quadrant) to an origin-centered box with half-extent half.
func boxSignedDistance(px, py, half float64) float64 {
	dx := px - half
	dy := py - half
	if dx <= 0 && dy <= 0 {
		return math.Max(dx, dy)
	}
	ox := math.Max(dx, 0)
	oy := math.Max(dy, 0)
	return math.Sqrt(ox*ox + oy*oy)
}

// ForceRadius returns the combined short-range force reach of two bubbles:
// half of each radius, summed.
func ForceRadius(ar, br float64) float64 {
	return ar/2 + br/2
}
