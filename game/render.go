package game

import (
	"fmt"
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/config"
)

// Draw renders one frame: force fields under everything, bubbles in z order,
// gold pair links, antibodies, then the HUD and the panel on top.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.NewColor(18, 18, 24, 255))

	for _, f := range g.fields {
		g.drawForceField(f)
	}

	g.drawBubbles()
	g.drawPairLinks()
	g.drawAntibodies()
	g.drawHUD()

	if g.panel != nil {
		g.panel.Draw()
	}
}

func (g *Game) drawForceField(f *ForceField) {
	center := rl.Vector2{X: float32(f.Pos.X), Y: float32(f.Pos.Y)}
	radius := float32(f.Radius())
	alpha := float32(f.Opacity())

	ring := rl.Fade(rl.SkyBlue, 0.7*alpha)
	rl.DrawCircleLinesV(center, radius, ring)
	rl.DrawCircleV(center, radius, rl.Fade(rl.SkyBlue, 0.08*alpha))

	for _, p := range f.particles {
		rl.DrawCircleV(rl.Vector2{X: float32(p.pos.X), Y: float32(p.pos.Y)}, 1.5, rl.Fade(rl.SkyBlue, float32(p.life)))
	}
}

// drawBubbles renders every bubble that still has something to show, in
// ascending z order so hunters draw over prey.
func (g *Game) drawBubbles() {
	type drawItem struct {
		e ecs.Entity
		z int
	}
	items := make([]drawItem, 0, len(g.frameBubbles))

	query := g.bubbleFilter.Query()
	for query.Next() {
		_, _, b := query.Get()
		if b.Dead() || b.Radius <= 0 {
			continue
		}
		items = append(items, drawItem{query.Entity(), kindTable[b.Kind].zIndex})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].z < items[j].z })

	for _, it := range items {
		g.drawBubble(it.e)
	}
}

func (g *Game) drawBubble(e ecs.Entity) {
	b := g.bubMap.Get(e)
	pos := g.posMap.Get(e)

	pair := kindColors(&g.cfg.Colors, b.Kind)
	color := blendColor(pair, b.Closest)
	color = rl.Fade(color, float32(b.Opacity(g.cfg.Bubble.DyingDuration)))

	center := rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)}

	if b.Kind == components.KindSquare {
		// DrawPoly takes the circumradius; rotating 45 degrees off the
		// physics rotation puts a flat side up at rotation zero.
		circum := float32(b.Radius * math.Sqrt2)
		deg := float32(b.Rotation*180/math.Pi) + 45
		rl.DrawPoly(center, 4, circum, deg, color)
		return
	}

	rl.DrawCircleV(center, float32(b.Radius), color)

	if b.Kind == components.KindBlackhole {
		rl.DrawCircleLinesV(center, float32(b.Radius)+2, rl.Fade(rl.Purple, 0.6))
	}
}

// drawPairLinks draws a faint line between gold pairs. Each pair is drawn
// once, from the lower-id side.
func (g *Game) drawPairLinks() {
	query := g.bubbleFilter.Query()
	for query.Next() {
		pos, _, b := query.Get()
		if b.Kind != components.KindGold || b.Dying || b.Dead() {
			continue
		}
		e := query.Entity()
		gold := g.goldMap.Get(e)
		if gold == nil || !gold.HasPair {
			continue
		}
		ppos := g.posMap.Get(gold.Pair)
		if ppos == nil || ppos.X < pos.X || (ppos.X == pos.X && ppos.Y < pos.Y) {
			continue
		}
		rl.DrawLineEx(
			rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)},
			rl.Vector2{X: float32(ppos.X), Y: float32(ppos.Y)},
			1.5,
			rl.Fade(rl.Gold, 0.4),
		)
	}
}

// drawAntibodies renders the antibody dots. Idle ones only appear once the
// parent has mostly faded in, so a fresh antivirus does not trail full-size
// satellites while still a speck.
func (g *Game) drawAntibodies() {
	radius := float32(g.cfg.AntiVirus.AntibodyRadius)

	query := g.abFilter.Query()
	for query.Next() {
		pos, ab := query.Get()
		if ab.State == components.AntibodyDead {
			continue
		}
		if ab.State == components.AntibodyIdle {
			pb := g.bubMap.Get(ab.Parent)
			if pb == nil || pb.Radius < pb.TargetRadius*0.8 {
				continue
			}
		}
		rl.DrawCircleV(rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)}, radius, rl.Fade(rl.Lime, 0.9))
	}
}

func (g *Game) drawHUD() {
	y := int32(10)
	line := func(s string) {
		rl.DrawText(s, 10, y, 16, rl.Gray)
		y += 20
	}

	line(fmt.Sprintf("tick %d  alive %d / %d  dying %d", g.tick, g.AliveCount(), g.targetCount, g.dyingCount))
	line(fmt.Sprintf("normal %d  square %d  gold %d  bh %d  virus %d  av %d",
		g.aliveByKind[components.KindNormal],
		g.aliveByKind[components.KindSquare],
		g.aliveByKind[components.KindGold],
		g.aliveByKind[components.KindBlackhole],
		g.aliveByKind[components.KindVirus],
		g.aliveByKind[components.KindAntiVirus],
	))
	line(fmt.Sprintf("tool %s  speed x%d", g.tool, g.stepsPerUpdate))
	if g.paused {
		line("paused")
	}
}

func kindColors(c *config.ColorsConfig, k components.Kind) *config.ColorPair {
	switch k {
	case components.KindSquare:
		return &c.Square
	case components.KindGold:
		return &c.Gold
	case components.KindBlackhole:
		return &c.Blackhole
	case components.KindVirus:
		return &c.Virus
	case components.KindAntiVirus:
		return &c.AntiVirus
	default:
		return &c.Normal
	}
}

// blendColor lerps the calm color toward the alarmed color by closeness.
func blendColor(pair *config.ColorPair, t float64) rl.Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return rl.Color{
		R: lerp(pair.Default[0], pair.Close[0]),
		G: lerp(pair.Default[1], pair.Close[1]),
		B: lerp(pair.Default[2], pair.Close[2]),
		A: 255,
	}
}
