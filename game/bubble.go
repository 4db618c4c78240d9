package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/systems"
	"github.com/pthm-cable/bubbles/vmath"
)

// updateBubble advances one bubble by dt: life bookkeeping, exponential
// relaxation toward targets, integration, wall handling, pairwise
// force/collision resolution and the variant's autonomous behavior.
func (g *Game) updateBubble(e ecs.Entity, dt float64) {
	if !g.world.Alive(e) {
		return
	}
	b := g.bubMap.Get(e)
	if b == nil || b.Dead() {
		return
	}

	cfg := &g.cfg.Bubble

	if b.Dying {
		// Grow and fade out; all physics stops.
		b.RemainingLife -= dt
		b.Radius *= 1 + cfg.DyingGrowthRate*dt
		return
	}

	b.RemainingLife -= dt
	if b.RemainingLife <= cfg.DyingDuration {
		// Natural life expiry enters dying without a kill.
		b.Dying = true
		return
	}

	pos := g.posMap.Get(e)
	vel := g.velMap.Get(e)

	// Relax rotation, radius and velocity toward their targets.
	b.TargetRotation += cfg.SpinRate * b.SpinDir * dt
	b.Rotation = vmath.ModExpDecay(b.Rotation, b.TargetRotation, dt, cfg.RotationHalfLife, 2*math.Pi)
	b.Radius = vmath.ExpDecay(b.Radius, b.TargetRadius, dt, cfg.RadiusHalfLife)
	if b.Radius < 0 {
		b.Radius = 0
	}
	vel.Cur.ExpDecay(&vel.Target, dt, cfg.VelocityHalfLife)

	pos.Add(vel.Cur.Clone().Scale(dt))

	if !g.handleWalls(e, b, pos, vel) {
		return // killed by a wall
	}

	g.resolveNeighbors(e, b, pos, vel, dt)

	if b.Dying {
		return // killed by a collision this frame
	}

	if auto := kindTable[b.Kind].autonomous; auto != nil {
		auto(g, e, dt)
	}
}

// handleWalls enforces the boundary for each of the four walls. Returns
// false if the bubble died to a wall.
func (g *Game) handleWalls(e ecs.Entity, b *components.Bubble, pos *components.Position, vel *components.Velocity) bool {
	extent := wallExtent(b)

	type hit struct {
		wall  Wall
		cross bool
	}
	hits := [4]hit{
		{WallLeft, pos.X-extent <= 0},
		{WallRight, pos.X+extent >= g.width},
		{WallTop, pos.Y-extent <= 0},
		{WallBottom, pos.Y+extent >= g.height},
	}

	for _, h := range hits {
		if !h.cross {
			continue
		}
		switch kindTable[b.Kind].wallPolicy(h.wall) {
		case wallDie:
			g.killBubble(e, KillReason{Kind: ReasonWall, Direction: h.wall.Normal()})
			return false
		case wallClamp:
			g.clampToWall(h.wall, extent, pos, vel, false)
		case wallReflect:
			g.clampToWall(h.wall, extent, pos, vel, true)
		}
	}
	return true
}

// wallExtent is the half-width of the bubble's axis-aligned bounding box.
// A rotated square reaches past its inscribed circle, up to radius * sqrt 2
// at the corners.
func wallExtent(b *components.Bubble) float64 {
	if b.Kind != components.KindSquare {
		return b.Radius
	}
	sin, cos := math.Sincos(b.Rotation)
	return b.Radius * (math.Abs(sin) + math.Abs(cos))
}

// clampToWall pushes the bubble back in bounds. With reflect, an outward
// velocity component is mirrored; otherwise it is zeroed.
func (g *Game) clampToWall(w Wall, extent float64, pos *components.Position, vel *components.Velocity, reflect bool) {
	fix := func(v *float64) {
		if reflect {
			*v = -*v
		} else {
			*v = 0
		}
	}
	switch w {
	case WallLeft:
		pos.X = extent
		if vel.Cur.X < 0 {
			fix(&vel.Cur.X)
		}
	case WallRight:
		pos.X = g.width - extent
		if vel.Cur.X > 0 {
			fix(&vel.Cur.X)
		}
	case WallTop:
		pos.Y = extent
		if vel.Cur.Y < 0 {
			fix(&vel.Cur.Y)
		}
	case WallBottom:
		pos.Y = g.height - extent
		if vel.Cur.Y > 0 {
			fix(&vel.Cur.Y)
		}
	}
}

// resolveNeighbors runs the pairwise gap/force pass against every other
// live, non-dying bubble, in frame order. Overlap kills both sides; a gap
// inside the combined force radius applies a quadratic repulsive impulse.
// Closest is reset here and accumulates the frame maximum.
func (g *Game) resolveNeighbors(e ecs.Entity, b *components.Bubble, pos *components.Position, vel *components.Velocity, dt float64) {
	b.Closest = 0

	self := systems.Shape{Pos: pos.Vec2, Radius: b.Radius, Rotation: b.Rotation, Kind: b.Kind}

	for _, other := range g.frameBubbles {
		if other == e || !g.world.Alive(other) {
			continue
		}
		ob := g.bubMap.Get(other)
		if ob == nil || ob.Dying || ob.Dead() {
			continue
		}
		opos := g.posMap.Get(other)

		gap := systems.Gap(self, systems.Shape{Pos: opos.Vec2, Radius: ob.Radius, Rotation: ob.Rotation, Kind: ob.Kind})

		if gap <= 0 {
			g.killBubble(e, KillReason{Kind: ReasonBubble, Other: other})
			g.killBubble(other, KillReason{Kind: ReasonBubble, Other: e})
			if b.Dying {
				return
			}
			continue
		}

		forceRadius := systems.ForceRadius(b.Radius, ob.Radius)
		if gap >= forceRadius {
			continue
		}

		closeness := 1 - gap/forceRadius
		if closeness > b.Closest {
			b.Closest = closeness
		}

		mul := g.forceMultiplier(e, b.Kind, other, ob.Kind)
		if mul == 0 {
			continue
		}

		away := pos.Clone().Sub(&opos.Vec2)
		if away.NormSq() == 0 {
			continue
		}
		away.Normalize().Scale(closeness * closeness * mul * dt)
		vel.Cur.Add(away)
	}
}

// killBubble runs the kill protocol: idempotent once dying, dispatched
// through the variant's kill policy, which may veto or substitute a side
// effect. On a real kill the remaining life is clamped to exactly the dying
// duration.
func (g *Game) killBubble(e ecs.Entity, reason KillReason) {
	if !g.world.Alive(e) {
		return
	}
	b := g.bubMap.Get(e)
	if b == nil || b.Dying || b.Dead() {
		return
	}

	if !kindTable[b.Kind].allowKill(g, e, b, reason) {
		return
	}

	b.RemainingLife = g.cfg.Bubble.DyingDuration
	b.Dying = true

	// Collision and pointer strikes flash the alarm color through the fade.
	if reason.Kind == ReasonBubble || reason.Kind == ReasonMouse {
		b.Closest = 1
	}

	g.collector.RecordKill(b.Kind, reason.Kind.String())
}
