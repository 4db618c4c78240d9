package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
)

// blackholeAllowKill absorbs bubble collisions: instead of dying, the
// blackhole grows its target radius by a fixed increment. Anything else
// (pointer strike, antibody hit) kills it normally.
func blackholeAllowKill(g *Game, _ ecs.Entity, b *components.Bubble, reason KillReason) bool {
	if reason.Kind == ReasonBubble {
		b.TargetRadius += g.cfg.Blackhole.RadiusIncrement
		return false
	}
	return true
}

// updateBlackhole pulls every other live bubble toward the hole with an
// inverse-power-law (d^-1.5) acceleration. Other blackholes and antiviruses
// are exempt. This is distinct from, and much stronger at range than, the
// generic short-range repulsion.
func (g *Game) updateBlackhole(e ecs.Entity, dt float64) {
	pos := g.posMap.Get(e)
	pull := g.cfg.Blackhole.PullConstant

	for _, other := range g.frameBubbles {
		if other == e || !g.world.Alive(other) {
			continue
		}
		ob := g.bubMap.Get(other)
		if ob == nil || ob.Dying || ob.Dead() {
			continue
		}
		if ob.Kind == components.KindBlackhole || ob.Kind == components.KindAntiVirus {
			continue
		}

		opos := g.posMap.Get(other)
		toward := pos.Clone().Sub(&opos.Vec2)
		dist := toward.Norm()
		if dist == 0 {
			continue
		}

		accel := pull * math.Pow(dist, -1.5)
		ovel := g.velMap.Get(other)
		ovel.Cur.Add(toward.Div(dist).Scale(accel * dt))
	}
}
