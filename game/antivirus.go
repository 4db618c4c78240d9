package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/vmath"
)

// antivirusAllowKill lets only a blackhole collision or the pool-exhaustion
// suicide end an antivirus.
func antivirusAllowKill(g *Game, _ ecs.Entity, _ *components.Bubble, reason KillReason) bool {
	switch reason.Kind {
	case ReasonUnderpopulation:
		return true
	case ReasonBubble:
		ob := g.bubMap.Get(reason.Other)
		return ob != nil && ob.Kind == components.KindBlackhole
	default:
		return false
	}
}

// updateAntiVirus runs the dispatch cooldown: when ready, it scans for the
// nearest unclaimed virus or blackhole in range and sends an idle antibody
// after it. With the pool spent and nothing still in flight it self-kills.
func (g *Game) updateAntiVirus(e ecs.Entity, dt float64) {
	av := g.avMap.Get(e)

	if av.Remaining == 0 && av.Pending == 0 {
		g.killBubble(e, KillReason{Kind: ReasonUnderpopulation, Message: "antibody pool exhausted"})
		return
	}

	if av.Cooldown > 0 {
		av.Cooldown -= dt
		return
	}
	if av.Remaining == 0 {
		return
	}

	b := g.bubMap.Get(e)
	pos := g.posMap.Get(e)
	scanRange := g.cfg.AntiVirus.ScanRangeFactor * b.Radius

	target, ok := g.scanForThreat(e, pos, scanRange)
	if !ok {
		return // nothing in range; try again next frame
	}

	if g.dispatchAntibody(e, av, target) {
		g.avMarks[target] = e
		av.Cooldown = g.cfg.AntiVirus.Cooldown
	}
}

// scanForThreat returns the nearest virus or blackhole within range that no
// other antivirus has already claimed.
func (g *Game) scanForThreat(e ecs.Entity, pos *components.Position, scanRange float64) (ecs.Entity, bool) {
	neighbors := g.grid.QueryRadiusInto(nil, pos.X, pos.Y, scanRange, e, g.posMap)

	var best ecs.Entity
	bestDistSq := math.Inf(1)
	found := false

	for _, n := range neighbors {
		ob := g.bubMap.Get(n.E)
		if ob == nil || ob.Dying || ob.Dead() {
			continue
		}
		if ob.Kind != components.KindVirus && ob.Kind != components.KindBlackhole {
			continue
		}
		if claimer, ok := g.avMarks[n.E]; ok && claimer != e && g.world.Alive(claimer) {
			continue
		}
		if n.DistSq < bestDistSq {
			bestDistSq = n.DistSq
			best = n.E
			found = true
		}
	}

	return best, found
}

// dispatchAntibody sends one idle antibody of this parent after the target.
// Double-dispatching a non-idle antibody is a logic bug and panics.
func (g *Game) dispatchAntibody(parent ecs.Entity, av *components.AntiVirus, target ecs.Entity) bool {
	for _, e := range g.frameAntibodies {
		if !g.world.Alive(e) {
			continue
		}
		ab := g.abMap.Get(e)
		if ab == nil || ab.Parent != parent || ab.State != components.AntibodyIdle {
			continue
		}
		g.sendAntibody(e, ab, target)
		av.Remaining--
		av.Pending++
		return true
	}
	return false
}

// sendAntibody flips an antibody to the dispatched state, aimed at target.
func (g *Game) sendAntibody(e ecs.Entity, ab *components.Antibody, target ecs.Entity) {
	if ab.State != components.AntibodyIdle {
		panic("antibody: dispatching an antibody that is already in flight")
	}
	pos := g.posMap.Get(e)
	tpos := g.posMap.Get(target)

	ab.State = components.AntibodyDispatched
	ab.Target = target
	ab.Heading = pos.AngleTo(&tpos.Vec2)
	ab.Speed = 0
}

// updateAntibodies advances every antibody's flight state machine.
func (g *Game) updateAntibodies(dt float64) {
	for _, e := range g.frameAntibodies {
		if !g.world.Alive(e) {
			continue
		}
		ab := g.abMap.Get(e)
		if ab == nil || ab.State == components.AntibodyDead {
			continue
		}

		if !g.world.Alive(ab.Parent) {
			ab.State = components.AntibodyDead
			continue
		}

		switch ab.State {
		case components.AntibodyIdle:
			g.orbitParent(e, ab, dt)
		case components.AntibodyDispatched:
			g.homeOnTarget(e, ab, dt)
		case components.AntibodyReturning:
			g.returnToParent(e, ab, dt)
		}
	}
}

// orbitParent keeps an idle antibody circling its orbit slot.
func (g *Game) orbitParent(e ecs.Entity, ab *components.Antibody, dt float64) {
	ab.OrbitPhase += g.cfg.AntiVirus.AntibodyOrbitRate * dt

	ppos := g.posMap.Get(ab.Parent)
	pos := g.posMap.Get(e)

	slot := ab.HomeOffset.Clone().Rotate(ab.OrbitPhase)
	pos.Set(ppos.X+slot.X, ppos.Y+slot.Y)
}

// homeOnTarget steers a dispatched antibody: heading and speed both relax
// exponentially toward the target-facing values, then contact kills.
func (g *Game) homeOnTarget(e ecs.Entity, ab *components.Antibody, dt float64) {
	target := ab.Target
	tb := g.bubMap.Get(target)
	if !g.world.Alive(target) || tb == nil || tb.Dying || tb.Dead() {
		g.releaseMark(target)
		ab.State = components.AntibodyReturning
		return
	}

	pos := g.posMap.Get(e)
	tpos := g.posMap.Get(target)

	cfg := &g.cfg.AntiVirus
	ab.Heading = vmath.ModExpDecay(ab.Heading, pos.AngleTo(&tpos.Vec2), dt, cfg.AntibodyTurnHalfLife, 2*math.Pi)
	ab.Speed = vmath.ExpDecay(ab.Speed, cfg.AntibodySpeed, dt, cfg.AntibodySpeedHalfLife)

	sin, cos := math.Sincos(ab.Heading)
	pos.X += cos * ab.Speed * dt
	pos.Y += sin * ab.Speed * dt

	if pos.DistanceTo(&tpos.Vec2) <= tb.Radius+cfg.ContactDistance {
		g.killBubble(target, KillReason{Kind: ReasonAntibody, Other: e})
		g.releaseMark(target)
		g.retireAntibody(ab)
	}
}

// returnToParent flies the antibody back to its orbit slot, where it expires.
func (g *Game) returnToParent(e ecs.Entity, ab *components.Antibody, dt float64) {
	ppos := g.posMap.Get(ab.Parent)
	home := ppos.Clone().Add(&ab.HomeOffset)

	pos := g.posMap.Get(e)

	cfg := &g.cfg.AntiVirus
	ab.Heading = vmath.ModExpDecay(ab.Heading, pos.AngleTo(home), dt, cfg.AntibodyTurnHalfLife, 2*math.Pi)
	ab.Speed = vmath.ExpDecay(ab.Speed, cfg.AntibodySpeed, dt, cfg.AntibodySpeedHalfLife)

	sin, cos := math.Sincos(ab.Heading)
	pos.X += cos * ab.Speed * dt
	pos.Y += sin * ab.Speed * dt

	if pos.DistanceTo(home) <= cfg.ContactDistance {
		g.retireAntibody(ab)
	}
}

// retireAntibody ends an antibody's flight and settles the parent's books.
func (g *Game) retireAntibody(ab *components.Antibody) {
	ab.State = components.AntibodyDead
	if g.world.Alive(ab.Parent) {
		if av := g.avMap.Get(ab.Parent); av != nil {
			av.Pending--
		}
	}
}

// releaseMark drops an antivirus claim on a target.
func (g *Game) releaseMark(target ecs.Entity) {
	delete(g.avMarks, target)
}
