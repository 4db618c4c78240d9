package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/vmath"
)

func TestSpatialGridQueryRadius(t *testing.T) {
	w := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](w)

	spawn := func(x, y float64) ecs.Entity {
		return posMap.NewEntity(&components.Position{Vec2: vmath.Vec2{X: x, Y: y}})
	}

	grid := NewSpatialGrid(1000, 800, 96)

	near := spawn(110, 100)
	diag := spawn(160, 180) // distance 100 from origin point
	far := spawn(500, 500)

	grid.Insert(near, 110, 100)
	grid.Insert(diag, 160, 180)
	grid.Insert(far, 500, 500)

	got := grid.QueryRadiusInto(nil, 100, 100, 150, ecs.Entity{}, posMap)

	found := map[ecs.Entity]Neighbor{}
	for _, n := range got {
		found[n.E] = n
	}

	if _, ok := found[near]; !ok {
		t.Error("near entity missing from query")
	}
	if _, ok := found[diag]; !ok {
		t.Error("diagonal entity missing from query")
	}
	if _, ok := found[far]; ok {
		t.Error("far entity should be outside the radius")
	}

	if n := found[near]; n.DX != 10 || n.DY != 0 || n.DistSq != 100 {
		t.Errorf("near deltas = (%v, %v, %v), want (10, 0, 100)", n.DX, n.DY, n.DistSq)
	}
}

func TestSpatialGridExcludesEntity(t *testing.T) {
	w := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](w)

	self := posMap.NewEntity(&components.Position{Vec2: vmath.Vec2{X: 100, Y: 100}})
	grid := NewSpatialGrid(1000, 800, 96)
	grid.Insert(self, 100, 100)

	if got := grid.QueryRadiusInto(nil, 100, 100, 50, self, posMap); len(got) != 0 {
		t.Errorf("excluded entity returned: %v", got)
	}
}

func TestSpatialGridClear(t *testing.T) {
	w := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](w)

	e := posMap.NewEntity(&components.Position{Vec2: vmath.Vec2{X: 100, Y: 100}})
	grid := NewSpatialGrid(1000, 800, 96)
	grid.Insert(e, 100, 100)
	grid.Clear()

	if got := grid.QueryRadiusInto(nil, 100, 100, 50, ecs.Entity{}, posMap); len(got) != 0 {
		t.Errorf("cleared grid returned entities: %v", got)
	}
}

func TestSpatialGridClampsOutOfBounds(t *testing.T) {
	w := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](w)

	// Positions outside the world must not panic; they clamp to edge cells.
	e := posMap.NewEntity(&components.Position{Vec2: vmath.Vec2{X: -50, Y: 900}})
	grid := NewSpatialGrid(1000, 800, 96)
	grid.Insert(e, -50, 900)

	got := grid.QueryRadiusInto(nil, 0, 800, 200, ecs.Entity{}, posMap)
	if len(got) != 1 {
		t.Errorf("clamped entity not found, got %v", got)
	}
}
