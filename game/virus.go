package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
)

// virusAllowKill lets only blackhole and antivirus collisions, antibody hits
// and the starvation suicide through; everything else, including pointer
// strikes, is vetoed. Wall hits never reach this policy (the virus clamps).
func virusAllowKill(g *Game, _ ecs.Entity, _ *components.Bubble, reason KillReason) bool {
	switch reason.Kind {
	case ReasonAntibody, ReasonUnderpopulation:
		return true
	case ReasonBubble:
		ob := g.bubMap.Get(reason.Other)
		if ob == nil {
			return false
		}
		return ob.Kind == components.KindBlackhole || ob.Kind == components.KindAntiVirus
	default:
		return false
	}
}

// virusEligiblePrey reports whether the bubble can be hunted: predators
// (blackhole, virus, antivirus) are off the menu, as is any prey already
// locked by a different live virus.
func (g *Game) virusEligiblePrey(hunter, prey ecs.Entity) bool {
	pb := g.bubMap.Get(prey)
	if pb == nil || pb.Dying || pb.Dead() {
		return false
	}
	switch pb.Kind {
	case components.KindBlackhole, components.KindVirus, components.KindAntiVirus:
		return false
	}
	if lock, ok := g.virusLocks[prey]; ok && lock != hunter {
		return g.staleLock(lock)
	}
	return true
}

// staleLock reports whether a lock holder is gone, so the lock can be
// stolen. Locks of pruned viruses are removed eagerly; this covers the
// in-frame window between a kill and the prune.
func (g *Game) staleLock(holder ecs.Entity) bool {
	if !g.world.Alive(holder) {
		return true
	}
	hb := g.bubMap.Get(holder)
	return hb == nil || hb.Dying || hb.Dead()
}

// updateVirus picks the slowest eligible prey each frame, steers toward it
// with a speed floor tied to the prey's own speed, and self-kills after
// starving for too long with no eligible prey anywhere.
func (g *Game) updateVirus(e ecs.Entity, dt float64) {
	virus := g.virusMap.Get(e)

	// Reconsider every frame: a slower prey may have appeared.
	var best ecs.Entity
	bestSpeed := 0.0
	found := false

	for _, other := range g.frameBubbles {
		if other == e || !g.world.Alive(other) {
			continue
		}
		if !g.virusEligiblePrey(e, other) {
			continue
		}
		speed := g.velMap.Get(other).Cur.Norm()
		if !found || speed < bestSpeed {
			best = other
			bestSpeed = speed
			found = true
		}
	}

	if !found {
		if virus.HasTarget {
			g.releaseVirusLock(e, virus)
		}
		virus.IdleTime += dt
		if virus.IdleTime > g.cfg.Virus.SuicideTimeout {
			g.killBubble(e, KillReason{Kind: ReasonUnderpopulation, Message: "no eligible prey"})
		}
		return
	}

	virus.IdleTime = 0

	if virus.HasTarget && virus.Target != best {
		g.releaseVirusLock(e, virus)
	}
	virus.Target = best
	virus.HasTarget = true
	g.virusLocks[best] = e

	// Chase: aim at the prey at a speed tied to the prey's own, floored so
	// a crawling prey is still caught.
	pos := g.posMap.Get(e)
	tpos := g.posMap.Get(best)

	speed := g.cfg.Virus.SpeedFactor * bestSpeed
	if speed < g.cfg.Virus.SpeedFloor {
		speed = g.cfg.Virus.SpeedFloor
	}

	dir := tpos.Clone().Sub(&pos.Vec2)
	if dir.NormSq() == 0 {
		return
	}
	dir.Normalize().Scale(speed)

	vel := g.velMap.Get(e)
	vel.Target = *dir
}

// releaseVirusLock drops the exclusive claim on the current target.
func (g *Game) releaseVirusLock(e ecs.Entity, virus *components.Virus) {
	if lock, ok := g.virusLocks[virus.Target]; ok && lock == e {
		delete(g.virusLocks, virus.Target)
	}
	virus.HasTarget = false
	virus.Target = ecs.Entity{}
}
