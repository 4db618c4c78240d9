package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
)

// goldAllowKill implements the gold kill whitelist: pointer strikes never
// kill gold, and only collisions with gold, virus, blackhole or antivirus
// go through. Wall hits never reach this policy (gold reflects or clamps).
func goldAllowKill(g *Game, _ ecs.Entity, _ *components.Bubble, reason KillReason) bool {
	switch reason.Kind {
	case ReasonMouse:
		return false
	case ReasonBubble:
		ob := g.bubMap.Get(reason.Other)
		if ob == nil {
			return false
		}
		switch ob.Kind {
		case components.KindGold, components.KindVirus, components.KindBlackhole, components.KindAntiVirus:
			return true
		}
		return false
	default:
		return true
	}
}

// updateGold maintains the mutual pair reference and the pair spring. A
// pair is always symmetric: both sides point at each other or neither does.
func (g *Game) updateGold(e ecs.Entity, dt float64) {
	gold := g.goldMap.Get(e)
	b := g.bubMap.Get(e)
	pos := g.posMap.Get(e)

	pairRange := g.cfg.Gold.PairRangeFactor * b.Radius

	if gold.HasPair {
		if !g.pairStillValid(e, gold, pairRange) {
			g.unpairGold(e)
		}
	}

	if !gold.HasPair {
		g.seekGoldPartner(e, gold, pos, pairRange)
	}

	if !gold.HasPair {
		return
	}

	// Clamped attractive spring pulling the pair together. Each side pulls
	// itself on its own update, so the force is symmetric over the frame.
	ppos := g.posMap.Get(gold.Pair)
	dist := pos.DistanceTo(&ppos.Vec2)
	if dist == 0 {
		return
	}

	pull := g.cfg.Gold.SpringStrength * dist / pairRange
	if pull > g.cfg.Gold.SpringMaxForce {
		pull = g.cfg.Gold.SpringMaxForce
	}

	vel := g.velMap.Get(e)
	toward := ppos.Clone().Sub(&pos.Vec2).Div(dist).Scale(pull * dt)
	vel.Cur.Add(toward)
}

// pairStillValid checks liveness, mutuality and range of the current pair.
func (g *Game) pairStillValid(e ecs.Entity, gold *components.Gold, pairRange float64) bool {
	pair := gold.Pair
	if !g.world.Alive(pair) {
		return false
	}
	pb := g.bubMap.Get(pair)
	if pb == nil || pb.Dying || pb.Dead() {
		return false
	}
	pg := g.goldMap.Get(pair)
	if pg == nil || !pg.HasPair || pg.Pair != e {
		return false
	}
	pos := g.posMap.Get(e)
	ppos := g.posMap.Get(pair)
	return pos.DistanceTo(&ppos.Vec2) <= pairRange
}

// seekGoldPartner pairs with the nearest unpaired live gold in range.
func (g *Game) seekGoldPartner(e ecs.Entity, gold *components.Gold, pos *components.Position, pairRange float64) {
	neighbors := g.grid.QueryRadiusInto(nil, pos.X, pos.Y, pairRange, e, g.posMap)

	var best ecs.Entity
	bestDistSq := pairRange * pairRange
	found := false

	for _, n := range neighbors {
		ob := g.bubMap.Get(n.E)
		if ob == nil || ob.Kind != components.KindGold || ob.Dying || ob.Dead() {
			continue
		}
		og := g.goldMap.Get(n.E)
		if og == nil || og.HasPair {
			continue
		}
		if n.DistSq <= bestDistSq {
			bestDistSq = n.DistSq
			best = n.E
			found = true
		}
	}

	if !found {
		return
	}

	gold.Pair = best
	gold.HasPair = true
	partner := g.goldMap.Get(best)
	partner.Pair = e
	partner.HasPair = true
}

// unpairGold severs a pair from the side of e, clearing both directions so
// the reference is never left dangling one way.
func (g *Game) unpairGold(e ecs.Entity) {
	gold := g.goldMap.Get(e)
	if gold == nil || !gold.HasPair {
		return
	}
	pair := gold.Pair
	gold.HasPair = false
	gold.Pair = ecs.Entity{}

	if g.world.Alive(pair) {
		if pg := g.goldMap.Get(pair); pg != nil && pg.HasPair && pg.Pair == e {
			pg.HasPair = false
			pg.Pair = ecs.Entity{}
		}
	}
}
