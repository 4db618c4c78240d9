package components

import (
	"math"
	"testing"
)

func TestLifeStates(t *testing.T) {
	const d = 0.75

	tests := []struct {
		name      string
		life      float64
		dying     bool
		wantDead  bool
		wantFaded bool
	}{
		{"alive", 10, false, false, false},
		{"just killed", d, true, false, false},
		{"mid fade", d / 2, true, false, false},
		{"at zero", 0, true, false, true},
		{"past zero", -0.01, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bubble{RemainingLife: tt.life, Dying: tt.dying}
			if got := b.Dead(); got != tt.wantDead {
				t.Errorf("Dead() = %v, want %v", got, tt.wantDead)
			}
			if faded := b.Opacity(d) == 0; faded != tt.wantFaded {
				t.Errorf("Opacity(%v) = %v, faded = %v, want %v", d, b.Opacity(d), faded, tt.wantFaded)
			}
		})
	}
}

func TestOpacityCubicFade(t *testing.T) {
	const d = 0.75

	alive := Bubble{RemainingLife: 5}
	if alive.Opacity(d) != 1 {
		t.Errorf("live bubble opacity = %v, want 1", alive.Opacity(d))
	}

	half := Bubble{RemainingLife: d / 2, Dying: true}
	want := math.Pow(0.5, 3)
	if got := half.Opacity(d); math.Abs(got-want) > 1e-12 {
		t.Errorf("half-fade opacity = %v, want %v", got, want)
	}
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindNormal:    "normal",
		KindSquare:    "square",
		KindGold:      "gold",
		KindBlackhole: "blackhole",
		KindVirus:     "virus",
		KindAntiVirus: "antivirus",
	}
	for k, want := range names {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
