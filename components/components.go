// Package components defines the ECS components for the bubble simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/vmath"
)

// Kind tags the bubble variant. Variant-specific rules (wall policy, kill
// policy, force multipliers, autonomous behavior) are dispatched off this tag.
type Kind uint8

const (
	KindNormal Kind = iota
	KindSquare
	KindGold
	KindBlackhole
	KindVirus
	KindAntiVirus
	NumKinds
)

// String returns the lowercase kind name used in config, telemetry and logs.
func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindSquare:
		return "square"
	case KindGold:
		return "gold"
	case KindBlackhole:
		return "blackhole"
	case KindVirus:
		return "virus"
	case KindAntiVirus:
		return "antivirus"
	default:
		return "unknown"
	}
}

// Position is an entity's world position.
type Position struct {
	vmath.Vec2
}

// Velocity holds the current velocity and the target it relaxes toward.
// Cur converges on Target by exponential decay each frame.
type Velocity struct {
	Cur    vmath.Vec2
	Target vmath.Vec2
}

// Bubble holds the shared per-bubble state.
//
// Life states are derived from RemainingLife against the configured dying
// duration D: alive (> D), dying ([0, D]), dead (< 0). The alive->dying
// transition happens only through a kill, which clamps RemainingLife to
// exactly D.
type Bubble struct {
	Kind Kind

	Radius         float64
	TargetRadius   float64
	Rotation       float64
	TargetRotation float64
	SpinDir        float64 // +1 or -1, sign of the idle rotation drift

	RemainingLife float64
	Dying         bool

	// Closest is the nearest-approach scalar in [0, 1] accumulated during
	// the neighbor loop; it drives the calm->alarmed color blend.
	Closest float64
}

// Opacity returns the draw opacity for the bubble: 1 while alive, a cubic
// fade-out of the remaining dying time afterwards.
func (b *Bubble) Opacity(dyingDuration float64) float64 {
	if !b.Dying {
		return 1
	}
	if b.RemainingLife <= 0 {
		return 0
	}
	f := b.RemainingLife / dyingDuration
	return f * f * f
}

// Dead reports whether the bubble has decayed past the end of its dying
// phase and should be pruned.
func (b *Bubble) Dead() bool {
	return b.RemainingLife < 0
}

// Gold holds the pairing state of a gold bubble. The pair is symmetric: if
// HasPair, the partner's Gold component points back at this entity.
type Gold struct {
	Pair    ecs.Entity
	HasPair bool
}

// Virus holds a virus's prey lock and its starvation clock. IdleTime
// accumulates while no eligible target exists and triggers the
// underpopulation suicide once it passes the configured timeout.
type Virus struct {
	Target    ecs.Entity
	HasTarget bool
	IdleTime  float64
}

// AntiVirus holds the dispatch cooldown and the antibody pool accounting.
// Antibodies are separate entities owned via their Antibody.Parent reference.
type AntiVirus struct {
	Cooldown  float64
	Remaining int // idle antibodies left in the pool
	Pending   int // antibodies currently dispatched or returning
}

// AntibodyState is the phase of an antibody's flight state machine.
type AntibodyState uint8

const (
	AntibodyIdle       AntibodyState = iota // orbiting the parent
	AntibodyDispatched                      // homing on a target
	AntibodyReturning                       // target died, flying home
	AntibodyDead
)

// Antibody is a homing sub-entity owned by an AntiVirus bubble.
type Antibody struct {
	Parent ecs.Entity
	Target ecs.Entity
	State  AntibodyState

	// Heading and speed both relax exponentially toward the target-facing
	// values, which is what gives the curved homing trajectories.
	Heading float64
	Speed   float64

	// HomeOffset is the fixed orbit slot relative to the parent, used while
	// idle and as the return destination.
	HomeOffset vmath.Vec2
	OrbitPhase float64
}
