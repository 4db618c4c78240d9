// Package game implements the bubble simulation core: the frame pipeline,
// the per-kind behavior dispatch, the kill protocol, the force field and the
// population controller.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	exprand "golang.org/x/exp/rand"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/config"
	"github.com/pthm-cable/bubbles/systems"
	"github.com/pthm-cable/bubbles/telemetry"
	"github.com/pthm-cable/bubbles/ui"
)

// Options configures a new Game.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
}

// Game holds the complete simulation state. All per-frame mutation happens
// synchronously inside Step; the live-entity list is only modified at the
// top level of the pipeline, never mid-iteration.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config

	// Source for the weighted kind sampler; gonum's samplers take the
	// x/exp/rand source type rather than math/rand.
	kindSrc exprand.Source

	// Entity creators per archetype.
	normalMapper *ecs.Map3[components.Position, components.Velocity, components.Bubble]
	goldMapper   *ecs.Map4[components.Position, components.Velocity, components.Bubble, components.Gold]
	virusMapper  *ecs.Map4[components.Position, components.Velocity, components.Bubble, components.Virus]
	avMapper     *ecs.Map4[components.Position, components.Velocity, components.Bubble, components.AntiVirus]
	abMapper     *ecs.Map2[components.Position, components.Antibody]

	bubbleFilter *ecs.Filter3[components.Position, components.Velocity, components.Bubble]
	abFilter     *ecs.Filter2[components.Position, components.Antibody]

	// Single-component mappers for lookups.
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	bubMap   *ecs.Map1[components.Bubble]
	goldMap  *ecs.Map1[components.Gold]
	virusMap *ecs.Map1[components.Virus]
	avMap    *ecs.Map1[components.AntiVirus]
	abMap    *ecs.Map1[components.Antibody]

	grid *systems.SpatialGrid

	// Side tables for exclusive targeting. Keys are invalidated when the
	// keyed entity is pruned.
	virusLocks map[ecs.Entity]ecs.Entity // prey -> virus holding the lock
	avMarks    map[ecs.Entity]ecs.Entity // target -> claiming antivirus

	fields []*ForceField
	// Field currently being charged by a held pointer, if any.
	activeField *ForceField

	// Frame-ordered traversal snapshots, reused across steps. Pairwise
	// resolution iterates frameBubbles in index order and mutates
	// velocities in place as encountered; that ordering is part of the
	// observable behavior.
	frameBubbles    []ecs.Entity
	frameAntibodies []ecs.Entity

	collector *telemetry.Collector
	output    *telemetry.OutputManager

	pointer PointerState
	tool    ui.Tool
	panel   *ui.Panel

	targetCount    int
	tick           int64
	simTime        float64
	paused         bool
	stepsPerUpdate int
	headless       bool
	logStats       bool

	width, height float64
	maxLiveRadius float64

	// Live counts by kind, refreshed each step (dying bubbles excluded).
	aliveByKind [components.NumKinds]int
	dyingCount  int
}

// NewGameWithOptions creates a new game instance from the global config.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	w := ecs.NewWorld()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		world:   w,
		rng:     rand.New(rand.NewSource(seed)),
		kindSrc: exprand.NewSource(uint64(seed)),
		cfg:     cfg,

		normalMapper: ecs.NewMap3[components.Position, components.Velocity, components.Bubble](w),
		goldMapper:   ecs.NewMap4[components.Position, components.Velocity, components.Bubble, components.Gold](w),
		virusMapper:  ecs.NewMap4[components.Position, components.Velocity, components.Bubble, components.Virus](w),
		avMapper:     ecs.NewMap4[components.Position, components.Velocity, components.Bubble, components.AntiVirus](w),
		abMapper:     ecs.NewMap2[components.Position, components.Antibody](w),

		bubbleFilter: ecs.NewFilter3[components.Position, components.Velocity, components.Bubble](w),
		abFilter:     ecs.NewFilter2[components.Position, components.Antibody](w),

		posMap:   ecs.NewMap1[components.Position](w),
		velMap:   ecs.NewMap1[components.Velocity](w),
		bubMap:   ecs.NewMap1[components.Bubble](w),
		goldMap:  ecs.NewMap1[components.Gold](w),
		virusMap: ecs.NewMap1[components.Virus](w),
		avMap:    ecs.NewMap1[components.AntiVirus](w),
		abMap:    ecs.NewMap1[components.Antibody](w),

		virusLocks: make(map[ecs.Entity]ecs.Entity),
		avMarks:    make(map[ecs.Entity]ecs.Entity),

		targetCount:    cfg.Population.Target,
		stepsPerUpdate: 1,
		headless:       opts.Headless,
		logStats:       opts.LogStats,

		width:  float64(cfg.Screen.Width),
		height: float64(cfg.Screen.Height),
	}

	g.grid = systems.NewSpatialGrid(g.width, g.height, cfg.Physics.GridCellSize)

	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(window)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("telemetry output disabled", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Warn("failed to snapshot config", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.panel = ui.NewPanel(int32(cfg.Screen.Width))
		g.panel.TargetCount = float32(cfg.Population.Target)
		g.panel.Square = float32(cfg.SpawnProbability.Square)
		g.panel.Gold = float32(cfg.SpawnProbability.Gold)
		g.panel.Blackhole = float32(cfg.SpawnProbability.Blackhole)
		g.panel.Virus = float32(cfg.SpawnProbability.Virus)
		g.panel.AntiVirus = float32(cfg.SpawnProbability.AntiVirus)
	}

	return g
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 { return g.tick }

// TargetCount returns the population target.
func (g *Game) TargetCount() int { return g.targetCount }

// SetTargetCount adjusts the population target at runtime.
func (g *Game) SetTargetCount(n int) {
	if n < 0 {
		n = 0
	}
	g.targetCount = n
}

// AliveCount returns the number of live, non-dying bubbles.
func (g *Game) AliveCount() int {
	total := 0
	for _, n := range g.aliveByKind {
		total += n
	}
	return total
}

// AliveByKind returns the live (non-dying) count for one kind.
func (g *Game) AliveByKind(k components.Kind) int { return g.aliveByKind[k] }

// UpdateHeadless advances the simulation by the configured fixed step,
// without touching any rendering or input state.
func (g *Game) UpdateHeadless() {
	g.Step(g.cfg.Physics.DT)
}

// Step advances the simulation by dt seconds. This is the whole frame
// pipeline; Update (graphical) and UpdateHeadless both funnel into it.
func (g *Game) Step(dt float64) {
	g.tick++
	g.simTime += dt

	g.refreshCounts()
	g.rebuildGrid()
	g.collectFrameEntities()

	for _, e := range g.frameBubbles {
		g.updateBubble(e, dt)
	}

	g.updateForceFields(dt)
	g.updateAntibodies(dt)
	g.controlPopulation()
	g.prune()

	g.flushTelemetry()
}

// refreshCounts recomputes the live population per kind.
func (g *Game) refreshCounts() {
	for i := range g.aliveByKind {
		g.aliveByKind[i] = 0
	}
	g.dyingCount = 0
	g.maxLiveRadius = 0

	query := g.bubbleFilter.Query()
	for query.Next() {
		_, _, b := query.Get()
		if b.Dead() {
			continue
		}
		if b.Dying {
			g.dyingCount++
			continue
		}
		g.aliveByKind[b.Kind]++
		if b.Radius > g.maxLiveRadius {
			g.maxLiveRadius = b.Radius
		}
		if b.TargetRadius > g.maxLiveRadius {
			g.maxLiveRadius = b.TargetRadius
		}
	}
}

// rebuildGrid refreshes the spatial index with live, non-dying bubbles.
func (g *Game) rebuildGrid() {
	g.grid.Clear()
	query := g.bubbleFilter.Query()
	for query.Next() {
		pos, _, b := query.Get()
		if !b.Dying && !b.Dead() {
			g.grid.Insert(query.Entity(), pos.X, pos.Y)
		}
	}
}

// collectFrameEntities snapshots the traversal order for this frame so the
// pairwise loops never iterate the world while it is being mutated.
func (g *Game) collectFrameEntities() {
	g.frameBubbles = g.frameBubbles[:0]
	query := g.bubbleFilter.Query()
	for query.Next() {
		g.frameBubbles = append(g.frameBubbles, query.Entity())
	}

	g.frameAntibodies = g.frameAntibodies[:0]
	abQuery := g.abFilter.Query()
	for abQuery.Next() {
		g.frameAntibodies = append(g.frameAntibodies, abQuery.Entity())
	}
}

// flushTelemetry emits a stats window when due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.simTime) {
		return
	}

	var radii []float64
	var counts [components.NumKinds]int
	query := g.bubbleFilter.Query()
	for query.Next() {
		_, _, b := query.Get()
		if b.Dying || b.Dead() {
			continue
		}
		counts[b.Kind]++
		radii = append(radii, b.Radius)
	}

	stats := g.collector.Flush(g.tick, g.simTime, counts, radii)

	if g.logStats {
		stats.LogStats()
	}
	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
}

// Unload releases held resources.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Warn("closing telemetry output", "error", err)
		}
	}
}
