// Package ui holds the debug panel and the pointer tool selection. It is
// deliberately free of simulation imports so the game package can depend on
// it without a cycle.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tool selects what a pointer press does in the viewport.
type Tool int

const (
	ToolForce Tool = iota
	ToolDelete
	ToolSpawn
)

func (t Tool) String() string {
	switch t {
	case ToolForce:
		return "force"
	case ToolDelete:
		return "delete"
	case ToolSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

const (
	panelWidth  = 240
	panelMargin = 10
)

// Panel is the tweak panel docked at the right edge. Draw mutates the public
// fields through raygui widgets; the game reads them back each frame.
type Panel struct {
	Visible bool
	Tool    Tool

	TargetCount float32

	// Spawn probabilities per special kind; the normal kind takes the rest.
	Square    float32
	Gold      float32
	Blackhole float32
	Virus     float32
	AntiVirus float32

	bounds rl.Rectangle
}

// NewPanel creates a hidden panel docked to the right edge of the screen.
func NewPanel(screenWidth int32) *Panel {
	return &Panel{
		bounds: rl.Rectangle{
			X:      float32(screenWidth - panelWidth - panelMargin),
			Y:      panelMargin,
			Width:  panelWidth,
			Height: 340,
		},
	}
}

// Toggle flips panel visibility.
func (p *Panel) Toggle() { p.Visible = !p.Visible }

// Hovered reports whether the mouse is over the visible panel, so viewport
// tools can ignore clicks that were meant for the widgets.
func (p *Panel) Hovered() bool {
	return p.Visible && rl.CheckCollisionPointRec(rl.GetMousePosition(), p.bounds)
}

// Draw renders the panel and applies widget interaction to the fields.
func (p *Panel) Draw() {
	if !p.Visible {
		return
	}

	rl.DrawRectangleRec(p.bounds, rl.Fade(rl.RayWhite, 0.85))
	rl.DrawRectangleLinesEx(p.bounds, 1, rl.LightGray)

	x := p.bounds.X + panelMargin
	y := p.bounds.Y + panelMargin
	w := p.bounds.Width - 2*panelMargin

	rl.DrawText("Settings", int32(x), int32(y), 18, rl.DarkGray)
	y += 28

	rl.DrawText(fmt.Sprintf("Target population: %d", int(p.TargetCount)), int32(x), int32(y), 14, rl.Gray)
	y += 18
	p.TargetCount = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w, Height: 18},
		"0", "150",
		p.TargetCount, 0, 150,
	)
	y += 28

	p.Square = p.probSlider(x, &y, w, "Square", p.Square)
	p.Gold = p.probSlider(x, &y, w, "Gold", p.Gold)
	p.Blackhole = p.probSlider(x, &y, w, "Blackhole", p.Blackhole)
	p.Virus = p.probSlider(x, &y, w, "Virus", p.Virus)
	p.AntiVirus = p.probSlider(x, &y, w, "AntiVirus", p.AntiVirus)

	y += 6
	bw := (w - 8) / 3
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 24}, toolLabel(p.Tool, ToolForce, "Force")) {
		p.Tool = ToolForce
	}
	if gui.Button(rl.Rectangle{X: x + bw + 4, Y: y, Width: bw, Height: 24}, toolLabel(p.Tool, ToolDelete, "Delete")) {
		p.Tool = ToolDelete
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+4), Y: y, Width: bw, Height: 24}, toolLabel(p.Tool, ToolSpawn, "Spawn")) {
		p.Tool = ToolSpawn
	}
}

func (p *Panel) probSlider(x float32, y *float32, w float32, label string, value float32) float32 {
	rl.DrawText(fmt.Sprintf("%s: %.2f", label, value), int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: w, Height: 18},
		"0", "0.3",
		value, 0, 0.3,
	)
	*y += 26
	return v
}

func toolLabel(cur, t Tool, name string) string {
	if cur == t {
		return "[" + name + "]"
	}
	return name
}
