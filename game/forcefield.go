package game

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/bubbles/config"
	"github.com/pthm-cable/bubbles/vmath"
)

// chargeParticle is a purely decorative mote flowing inward while the field
// charges.
type chargeParticle struct {
	pos  vmath.Vec2
	vel  vmath.Vec2
	life float64
}

// ForceField is a transient radial impulse source with two phases: charging
// while the pointer is held (force grows multiplicatively) and discharging
// after release (fixed force, radius and opacity ramp over a duration set by
// an inverse power law of the force).
type ForceField struct {
	Pos vmath.Vec2

	cfg *config.ForceFieldConfig

	force    float64
	started  bool
	age      float64
	duration float64

	particles []chargeParticle
}

// NewForceField creates a charging field at the given position.
func NewForceField(cfg *config.ForceFieldConfig, pos vmath.Vec2) *ForceField {
	return &ForceField{Pos: pos, cfg: cfg, force: cfg.DefaultForce}
}

// Force returns the current force value.
func (f *ForceField) Force() float64 { return f.force }

// Started reports whether the field has begun discharging.
func (f *ForceField) Started() bool { return f.started }

// SetForce overrides the charged force. Mutating the force once the
// discharge has started is a programming error and panics.
func (f *ForceField) SetForce(force float64) {
	if f.started {
		panic("forcefield: force is immutable after Start")
	}
	f.force = force
}

// Charge grows the force while the pointer is held, capped at the maximum.
func (f *ForceField) Charge(dt float64) {
	if f.started {
		panic("forcefield: cannot charge after Start")
	}
	f.force *= 1 + dt*f.cfg.GrowthRate
	if f.force > f.cfg.MaxForce {
		f.force = f.cfg.MaxForce
	}
}

// Start switches to the discharge phase and freezes the force. The duration
// follows an inverse power law: stronger charges burst faster.
func (f *ForceField) Start() {
	if f.started {
		panic("forcefield: Start called twice")
	}
	f.started = true
	f.age = 0
	f.duration = math.Pow(f.force*f.cfg.DurationScale, -0.8)
}

// Duration returns the discharge duration; zero while still charging.
func (f *ForceField) Duration() float64 {
	if !f.started {
		return 0
	}
	return f.duration
}

// progress returns the normalized discharge progress in [0, 1].
func (f *ForceField) progress() float64 {
	if f.duration <= 0 {
		return 1
	}
	t := f.age / f.duration
	if t > 1 {
		t = 1
	}
	return t
}

// Radius returns the current effect radius. While charging this is the
// visual charge ring; while discharging it sweeps out to force*scale.
func (f *ForceField) Radius() float64 {
	if !f.started {
		return f.force * f.cfg.Scale * 0.3
	}
	return f.force * f.cfg.Scale * f.progress()
}

// Opacity fades linearly over the discharge.
func (f *ForceField) Opacity() float64 {
	if !f.started {
		return 1
	}
	return 1 - f.progress()
}

// Dead reports whether the discharge has run its course.
func (f *ForceField) Dead() bool {
	return f.started && f.age >= f.duration
}

// Impulse returns the outward push magnitude for this frame.
func (f *ForceField) Impulse(dt float64) float64 {
	return f.cfg.ImpulseFactor * math.Pow(f.force, 1.5) * f.Opacity() * dt
}

// UpdateCharging advances the decorative particle swirl while held.
func (f *ForceField) UpdateCharging(dt float64, rng *rand.Rand) {
	radius := f.Radius()

	// Spawn count scales with the ring size.
	spawn := int(radius * f.cfg.ParticlesPerRadius * dt * 60)
	for i := 0; i < spawn; i++ {
		angle := rng.Float64() * 2 * math.Pi
		sin, cos := math.Sincos(angle)
		start := vmath.Vec2{X: f.Pos.X + cos*radius*1.5, Y: f.Pos.Y + sin*radius*1.5}
		inward := f.Pos.Clone().Sub(&start).Normalize().Scale(radius * (1.5 + rng.Float64()))
		f.particles = append(f.particles, chargeParticle{pos: start, vel: *inward, life: 0.6})
	}

	alive := f.particles[:0]
	for _, p := range f.particles {
		p.life -= dt
		if p.life <= 0 {
			continue
		}
		p.pos.Add(p.vel.Clone().Scale(dt))
		alive = append(alive, p)
	}
	f.particles = alive
}

// updateForceFields advances all fields: charging ones animate their swirl,
// discharging ones age and push every live, non-dying bubble inside the
// swept radius outward. Spent fields are dropped.
func (g *Game) updateForceFields(dt float64) {
	fields := g.fields[:0]
	for _, f := range g.fields {
		if !f.started {
			f.UpdateCharging(dt, g.rng)
			fields = append(fields, f)
			continue
		}

		f.age += dt
		radius := f.Radius()
		impulse := f.Impulse(dt)

		for _, e := range g.frameBubbles {
			if !g.world.Alive(e) {
				continue
			}
			b := g.bubMap.Get(e)
			if b == nil || b.Dying || b.Dead() {
				continue
			}
			pos := g.posMap.Get(e)
			dist := pos.DistanceTo(&f.Pos)
			if dist > radius+b.Radius || dist == 0 {
				continue
			}

			away := pos.Clone().Sub(&f.Pos).Div(dist).Scale(impulse)
			g.velMap.Get(e).Cur.Add(away)
		}

		if !f.Dead() {
			fields = append(fields, f)
		}
	}
	g.fields = fields
}
