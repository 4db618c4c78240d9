package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/systems"
	"github.com/pthm-cable/bubbles/ui"
	"github.com/pthm-cable/bubbles/vmath"
)

// PointerState tracks the mouse between frames so tools can read a position
// and a derived velocity without touching raylib themselves.
type PointerState struct {
	Pos      vmath.Vec2
	Prev     vmath.Vec2
	Velocity vmath.Vec2
	Down     bool
	Held     float64
}

// Update is the graphical frame entry: input, tools, panel sync, then the
// fixed pipeline. The frame dt is clamped so a dragged window or a debugger
// pause cannot produce a physics explosion.
func (g *Game) Update() {
	dt := float64(rl.GetFrameTime())
	if dt > g.cfg.Physics.MaxFrameDT {
		dt = g.cfg.Physics.MaxFrameDT
	}

	g.handleKeys()
	g.updatePointer(dt)
	g.applyPanel()
	g.handleTool(dt)

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(dt)
	}
}

func (g *Game) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		g.paused = !g.paused
	case rl.IsKeyPressed(rl.KeyComma):
		if g.stepsPerUpdate > 1 {
			g.stepsPerUpdate--
		}
	case rl.IsKeyPressed(rl.KeyPeriod):
		if g.stepsPerUpdate < 8 {
			g.stepsPerUpdate++
		}
	case rl.IsKeyPressed(rl.KeyTab):
		if g.panel != nil {
			g.panel.Toggle()
		}
	case rl.IsKeyPressed(rl.KeyF):
		g.setTool(ui.ToolForce)
	case rl.IsKeyPressed(rl.KeyD):
		g.setTool(ui.ToolDelete)
	case rl.IsKeyPressed(rl.KeyS):
		g.setTool(ui.ToolSpawn)
	}
}

func (g *Game) setTool(t ui.Tool) {
	g.tool = t
	if g.panel != nil {
		g.panel.Tool = t
	}
}

func (g *Game) updatePointer(dt float64) {
	m := rl.GetMousePosition()

	g.pointer.Prev = g.pointer.Pos
	g.pointer.Pos.Set(float64(m.X), float64(m.Y))

	if dt > 0 {
		g.pointer.Velocity = *g.pointer.Pos.Clone().Sub(&g.pointer.Prev).Div(dt)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.pointer.Held += dt
	} else {
		g.pointer.Held = 0
	}
	g.pointer.Down = rl.IsMouseButtonDown(rl.MouseButtonLeft)
}

// applyPanel reads the widget values back into the simulation.
func (g *Game) applyPanel() {
	if g.panel == nil {
		return
	}
	g.tool = g.panel.Tool
	g.targetCount = int(g.panel.TargetCount)

	p := &g.cfg.SpawnProbability
	p.Square = float64(g.panel.Square)
	p.Gold = float64(g.panel.Gold)
	p.Blackhole = float64(g.panel.Blackhole)
	p.Virus = float64(g.panel.Virus)
	p.AntiVirus = float64(g.panel.AntiVirus)
}

// handleTool dispatches pointer presses to the active tool. Clicks over the
// panel belong to the widgets, not the viewport.
func (g *Game) handleTool(dt float64) {
	if g.panel != nil && g.panel.Hovered() && g.activeField == nil {
		return
	}

	switch g.tool {
	case ui.ToolForce:
		g.forceTool(dt)
	case ui.ToolDelete:
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			g.KillAt(g.pointer.Pos)
		}
	case ui.ToolSpawn:
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			vel := g.pointer.Velocity.Clone().Scale(0.5)
			g.SpawnAt(g.pointer.Pos, *vel)
		}
	}
}

// forceTool charges a field while the button is held and releases it on
// button-up. The field stays where the press began.
func (g *Game) forceTool(dt float64) {
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		g.activeField = NewForceField(&g.cfg.ForceField, g.pointer.Pos)
		g.fields = append(g.fields, g.activeField)
	case rl.IsMouseButtonDown(rl.MouseButtonLeft) && g.activeField != nil:
		g.activeField.Charge(dt)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft) && g.activeField != nil:
		g.activeField.Start()
		g.activeField = nil
	}
}

// KillAt kills the topmost live bubble whose footprint contains the point.
// Ties on draw order go to the bubble whose center is nearest. Returns false
// when nothing was hit or the hit vetoed the kill.
func (g *Game) KillAt(point vmath.Vec2) bool {
	cursor := systems.Shape{Pos: point, Kind: components.KindNormal}

	var best ecs.Entity
	bestZ := -1
	bestDist := math.Inf(1)

	query := g.bubbleFilter.Query()
	for query.Next() {
		pos, _, b := query.Get()
		if b.Dying || b.Dead() {
			continue
		}
		shape := systems.Shape{Pos: pos.Vec2, Radius: b.Radius, Rotation: b.Rotation, Kind: b.Kind}
		if systems.Gap(shape, cursor) > 0 {
			continue
		}
		z := kindTable[b.Kind].zIndex
		d := pos.DistanceTo(&point)
		if z > bestZ || (z == bestZ && d < bestDist) {
			best = query.Entity()
			bestZ = z
			bestDist = d
		}
	}

	if bestZ < 0 {
		return false
	}
	before := g.bubMap.Get(best).Dying
	g.killBubble(best, KillReason{Kind: ReasonMouse})
	return !before && g.bubMap.Get(best).Dying
}
