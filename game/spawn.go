package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/systems"
	"github.com/pthm-cable/bubbles/vmath"
)

// controlPopulation tops the bubble list back up toward the target count.
// Placement is rejection-sampled: a candidate overlapping any live bubble is
// discarded and the retry budget shrinks. Running out of retries is normal;
// the deficit self-corrects on later frames.
func (g *Game) controlPopulation() {
	count := g.countAlive()
	deficit := g.targetCount - count
	if deficit <= 0 {
		return
	}

	retries := g.cfg.Population.RetryFactor * deficit

	for count < g.targetCount && retries > 0 {
		retries--

		kind := g.sampleKind()
		radius := g.cfg.Bubble.MinRadius + g.rng.Float64()*(g.cfg.Bubble.MaxRadius-g.cfg.Bubble.MinRadius)

		pos, ok := g.samplePlacement(radius)
		if !ok {
			continue
		}

		g.spawnBubble(kind, pos, radius, g.sampleSpawnVelocity())
		count++
	}
}

// countAlive counts live, non-dying bubbles right now (the per-kind counts
// cached at the top of the step may be stale after this frame's kills).
func (g *Game) countAlive() int {
	count := 0
	query := g.bubbleFilter.Query()
	for query.Next() {
		_, _, b := query.Get()
		if !b.Dying && !b.Dead() {
			count++
		}
	}
	return count
}

// sampleKind draws a bubble kind from the configured spawn probabilities.
// The normal kind absorbs the residual probability mass, and the blackhole
// weight is halved for every blackhole already alive, damping the feedback
// loop where holes vacuum the field and drive the spawn rate up.
func (g *Game) sampleKind() components.Kind {
	p := &g.cfg.SpawnProbability

	weights := make([]float64, components.NumKinds)
	weights[components.KindSquare] = p.Square
	weights[components.KindGold] = p.Gold
	weights[components.KindVirus] = p.Virus
	weights[components.KindAntiVirus] = p.AntiVirus
	weights[components.KindBlackhole] = p.Blackhole * math.Pow(0.5, float64(g.aliveByKind[components.KindBlackhole]))

	residual := 1 - (p.Square + p.Gold + p.Blackhole + p.Virus + p.AntiVirus)
	if residual < 0 {
		residual = 0
	}
	weights[components.KindNormal] = residual

	idx, ok := sampleuv.NewWeighted(weights, g.kindSrc).Take()
	if !ok {
		return components.KindNormal
	}
	return components.Kind(idx)
}

// samplePlacement draws a uniform position within the wall inset and rejects
// it if the candidate footprint overlaps any live bubble.
func (g *Game) samplePlacement(radius float64) (vmath.Vec2, bool) {
	margin := radius * g.cfg.Bubble.SpawnInset
	if 2*margin >= g.width || 2*margin >= g.height {
		return vmath.Vec2{}, false
	}

	pos := vmath.Vec2{
		X: margin + g.rng.Float64()*(g.width-2*margin),
		Y: margin + g.rng.Float64()*(g.height-2*margin),
	}

	if g.placementBlocked(pos, radius) {
		return vmath.Vec2{}, false
	}
	return pos, true
}

// placementBlocked reports whether a circle at pos would touch or overlap
// any live bubble's footprint. The scan is bounded by the largest live
// extent: no bubble can reach the candidate from further away than the
// candidate radius plus that extent (sqrt 2 covers square corners).
func (g *Game) placementBlocked(pos vmath.Vec2, radius float64) bool {
	candidate := systems.Shape{Pos: pos, Radius: radius, Kind: components.KindNormal}
	reach := radius + g.maxLiveRadius*math.Sqrt2

	neighbors := g.grid.QueryRadiusInto(nil, pos.X, pos.Y, reach, ecs.Entity{}, g.posMap)
	for _, n := range neighbors {
		ob := g.bubMap.Get(n.E)
		if ob == nil || ob.Dead() {
			continue
		}
		opos := g.posMap.Get(n.E)
		other := systems.Shape{Pos: opos.Vec2, Radius: ob.Radius, Rotation: ob.Rotation, Kind: ob.Kind}
		if systems.Gap(candidate, other) <= 0 {
			return true
		}
	}
	return false
}

// sampleSpawnVelocity returns the downward-biased drift of a fresh bubble.
func (g *Game) sampleSpawnVelocity() vmath.Vec2 {
	cfg := &g.cfg.Bubble
	return vmath.Vec2{
		X: (g.rng.Float64()*2 - 1) * cfg.DriftSpeed,
		Y: cfg.FallSpeedMin + g.rng.Float64()*(cfg.FallSpeedMax-cfg.FallSpeedMin),
	}
}

// SpawnAt places a bubble of a sampled kind at an explicit position with an
// explicit initial velocity, skipping placement rejection. This is the
// spawn-at-point entry used by the spawner tool.
func (g *Game) SpawnAt(pos vmath.Vec2, vel vmath.Vec2) ecs.Entity {
	radius := g.cfg.Bubble.MinRadius + g.rng.Float64()*(g.cfg.Bubble.MaxRadius-g.cfg.Bubble.MinRadius)
	return g.spawnBubble(g.sampleKind(), pos, radius, vel)
}

// SpawnKindAt places a bubble of an explicit kind, radius and velocity. Used
// by tests and the spawner tool's overrides.
func (g *Game) SpawnKindAt(kind components.Kind, pos vmath.Vec2, radius float64, vel vmath.Vec2) ecs.Entity {
	return g.spawnBubble(kind, pos, radius, vel)
}

// spawnBubble creates the entity for a new bubble. The radius starts at zero
// and relaxes toward its target, giving the fade-in.
func (g *Game) spawnBubble(kind components.Kind, pos vmath.Vec2, radius float64, vel vmath.Vec2) ecs.Entity {
	cfg := &g.cfg.Bubble

	spin := 1.0
	if g.rng.Float64() < 0.5 {
		spin = -1
	}
	rotation := g.rng.Float64() * 2 * math.Pi

	position := components.Position{Vec2: pos}
	velocity := components.Velocity{Cur: vel, Target: vel}
	bubble := components.Bubble{
		Kind:           kind,
		Radius:         0,
		TargetRadius:   radius,
		Rotation:       rotation,
		TargetRotation: rotation,
		SpinDir:        spin,
		RemainingLife:  cfg.MinLife + g.rng.Float64()*(cfg.MaxLife-cfg.MinLife),
	}

	var e ecs.Entity
	switch kind {
	case components.KindGold:
		e = g.goldMapper.NewEntity(&position, &velocity, &bubble, &components.Gold{})
	case components.KindVirus:
		e = g.virusMapper.NewEntity(&position, &velocity, &bubble, &components.Virus{})
	case components.KindAntiVirus:
		av := components.AntiVirus{
			Cooldown:  g.cfg.AntiVirus.Cooldown,
			Remaining: g.cfg.AntiVirus.AntibodyCount,
		}
		e = g.avMapper.NewEntity(&position, &velocity, &bubble, &av)
		g.spawnAntibodies(e, pos, radius)
	default:
		e = g.normalMapper.NewEntity(&position, &velocity, &bubble)
	}

	// Register with the spatial index right away so placement checks later
	// in the same frame see this spawn before the next grid rebuild.
	g.grid.Insert(e, pos.X, pos.Y)
	if radius > g.maxLiveRadius {
		g.maxLiveRadius = radius
	}

	g.collector.RecordSpawn(kind)
	return e
}

// spawnAntibodies creates the idle antibody pool orbiting a new antivirus.
func (g *Game) spawnAntibodies(parent ecs.Entity, pos vmath.Vec2, radius float64) {
	cfg := &g.cfg.AntiVirus
	n := cfg.AntibodyCount

	for i := 0; i < n; i++ {
		slot := float64(i) / float64(n) * 2 * math.Pi
		offset := vmath.Vec2{X: radius * cfg.AntibodyOrbitRadius}
		offset.Rotate(slot)

		abPos := components.Position{Vec2: vmath.Vec2{X: pos.X + offset.X, Y: pos.Y + offset.Y}}
		ab := components.Antibody{
			Parent:     parent,
			State:      components.AntibodyIdle,
			HomeOffset: offset,
			OrbitPhase: 0,
		}
		g.abMapper.NewEntity(&abPos, &ab)
	}
}
