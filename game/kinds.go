package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/vmath"
)

// ReasonKind discriminates the kill-reason tagged union.
type ReasonKind uint8

const (
	ReasonWall ReasonKind = iota
	ReasonBubble
	ReasonMouse
	ReasonAntibody
	ReasonUnderpopulation
)

// String returns the reason name used in telemetry and logs.
func (r ReasonKind) String() string {
	switch r {
	case ReasonWall:
		return "wall"
	case ReasonBubble:
		return "bubble"
	case ReasonMouse:
		return "mouse"
	case ReasonAntibody:
		return "antibody"
	case ReasonUnderpopulation:
		return "underpopulation_suicide"
	default:
		return "unknown"
	}
}

// KillReason describes why a bubble is being killed. Variant kill policies
// consume it to veto the death or to apply a side effect instead.
type KillReason struct {
	Kind      ReasonKind
	Direction vmath.Vec2 // outward wall normal for ReasonWall
	Other     ecs.Entity // colliding bubble or antibody source
	Message   string     // free-form detail for suicide reasons
}

// Wall identifies one of the four viewport boundaries.
type Wall uint8

const (
	WallLeft Wall = iota
	WallRight
	WallTop
	WallBottom
)

// Normal returns the outward unit normal of the wall.
func (w Wall) Normal() vmath.Vec2 {
	switch w {
	case WallLeft:
		return vmath.Vec2{X: -1}
	case WallRight:
		return vmath.Vec2{X: 1}
	case WallTop:
		return vmath.Vec2{Y: -1}
	default:
		return vmath.Vec2{Y: 1}
	}
}

// wallAction is what a variant does when its surface crosses a boundary.
type wallAction uint8

const (
	wallDie     wallAction = iota // kill with the wall reason
	wallClamp                     // clamp position, zero the outward velocity
	wallReflect                   // clamp position, mirror the velocity
)

// kindOps is the per-kind behavior table entry: each variant supplies its
// wall policy, its kill policy and an optional autonomous per-frame behavior.
type kindOps struct {
	// wallPolicy returns the action for a given wall.
	wallPolicy func(w Wall) wallAction
	// allowKill reports whether the reason actually kills this kind. It may
	// apply a side effect instead (blackhole growth) and veto.
	allowKill func(g *Game, e ecs.Entity, b *components.Bubble, reason KillReason) bool
	// autonomous runs the variant's own behavior after base physics.
	autonomous func(g *Game, e ecs.Entity, dt float64)
	// zIndex orders drawing, ascending.
	zIndex int
}

func dieOnWalls(Wall) wallAction   { return wallDie }
func clampOnWalls(Wall) wallAction { return wallClamp }

// goldWalls reflects off top/bottom and clamps on the sides.
func goldWalls(w Wall) wallAction {
	if w == WallTop || w == WallBottom {
		return wallReflect
	}
	return wallClamp
}

func alwaysKill(*Game, ecs.Entity, *components.Bubble, KillReason) bool { return true }

var kindTable [components.NumKinds]kindOps

func init() {
	kindTable[components.KindNormal] = kindOps{
		wallPolicy: dieOnWalls,
		allowKill:  alwaysKill,
	}
	kindTable[components.KindSquare] = kindOps{
		wallPolicy: dieOnWalls,
		allowKill:  alwaysKill,
	}
	kindTable[components.KindGold] = kindOps{
		wallPolicy: goldWalls,
		allowKill:  goldAllowKill,
		autonomous: (*Game).updateGold,
		zIndex:     1,
	}
	kindTable[components.KindBlackhole] = kindOps{
		wallPolicy: clampOnWalls,
		allowKill:  blackholeAllowKill,
		autonomous: (*Game).updateBlackhole,
	}
	kindTable[components.KindVirus] = kindOps{
		wallPolicy: clampOnWalls,
		allowKill:  virusAllowKill,
		autonomous: (*Game).updateVirus,
		zIndex:     2,
	}
	kindTable[components.KindAntiVirus] = kindOps{
		wallPolicy: clampOnWalls,
		allowKill:  antivirusAllowKill,
		autonomous: (*Game).updateAntiVirus,
		zIndex:     2,
	}
}

// forceMultiplier returns the short-range repulsion multiplier for the pair.
// Viruses and antiviruses neither push nor get pushed; a gold bubble ignores
// its own partner so the pair spring can win.
func (g *Game) forceMultiplier(a ecs.Entity, ak components.Kind, b ecs.Entity, bk components.Kind) float64 {
	if ak == components.KindVirus || ak == components.KindAntiVirus ||
		bk == components.KindVirus || bk == components.KindAntiVirus {
		return 0
	}
	if ak == components.KindGold && bk == components.KindGold {
		if ga := g.goldMap.Get(a); ga != nil && ga.HasPair && ga.Pair == b {
			return 0
		}
	}
	return g.cfg.Bubble.BaseForce
}
