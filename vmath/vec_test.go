package vmath

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestChaining(t *testing.T) {
	v := NewVec2(1, 2).Add(NewVec2(3, 4)).Scale(2).Sub(NewVec2(0, 2))
	if v.X != 8 || v.Y != 10 {
		t.Errorf("chained result = (%v, %v), want (8, 10)", v.X, v.Y)
	}
}

func TestCloneIndependence(t *testing.T) {
	a := NewVec2(1, 1)
	b := a.Clone().Scale(5)
	if a.X != 1 || a.Y != 1 {
		t.Errorf("original mutated by clone op: (%v, %v)", a.X, a.Y)
	}
	if b.X != 5 || b.Y != 5 {
		t.Errorf("clone = (%v, %v), want (5, 5)", b.X, b.Y)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       *Vec2
		wantNorm float64
	}{
		{"axis", NewVec2(3, 0), 1},
		{"diagonal", NewVec2(3, 4), 1},
		{"zero stays zero", NewVec2(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize().Norm()
			if !almostEqual(got, tt.wantNorm, eps) {
				t.Errorf("norm after normalize = %v, want %v", got, tt.wantNorm)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	v := NewVec2(1, 0).Rotate(math.Pi / 2)
	if !almostEqual(v.X, 0, eps) || !almostEqual(v.Y, 1, eps) {
		t.Errorf("rotate pi/2 = (%v, %v), want (0, 1)", v.X, v.Y)
	}
}

func TestExpDecayHalving(t *testing.T) {
	// After exactly one half-life the remaining distance halves.
	got := ExpDecay(0, 10, 0.25, 0.25)
	if !almostEqual(got, 5, eps) {
		t.Errorf("ExpDecay one half-life = %v, want 5", got)
	}
}

func TestExpDecayFrameRateIndependence(t *testing.T) {
	// Two small steps must land exactly where one combined step does.
	oneStep := ExpDecay(0, 10, 0.1, 0.3)
	twoStep := ExpDecay(ExpDecay(0, 10, 0.05, 0.3), 10, 0.05, 0.3)
	if !almostEqual(oneStep, twoStep, eps) {
		t.Errorf("split steps diverge: %v vs %v", oneStep, twoStep)
	}
}

func TestModExpDecayShortestPath(t *testing.T) {
	period := 2 * math.Pi

	// 0.1 rad converging to 2pi-0.1 should move backwards through zero,
	// not the long way around.
	got := ModExpDecay(0.1, period-0.1, 1, 1, period)
	want := math.Mod(0.1-0.1+period, period) // halfway along the -0.2 gap
	if !almostEqual(got, want, eps) {
		t.Errorf("ModExpDecay across wrap = %v, want %v", got, want)
	}

	// Result is always re-wrapped into [0, period).
	if got < 0 || got >= period {
		t.Errorf("result %v outside [0, period)", got)
	}
}

func TestVecExpDecay(t *testing.T) {
	v := NewVec2(0, 0).ExpDecay(NewVec2(4, 8), 1, 1)
	if !almostEqual(v.X, 2, eps) || !almostEqual(v.Y, 4, eps) {
		t.Errorf("vec ExpDecay = (%v, %v), want (2, 4)", v.X, v.Y)
	}
}
