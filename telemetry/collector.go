// Package telemetry aggregates simulation events into fixed windows and
// writes them to structured logs and CSV output.
package telemetry

import "github.com/pthm-cable/bubbles/components"

// Collector accumulates spawn and kill events within sim-time windows and
// produces WindowStats.
type Collector struct {
	windowSec   float64
	windowStart float64

	spawnsByKind [components.NumKinds]int

	killsWall     int
	killsBubble   int
	killsMouse    int
	killsAntibody int
	killsSuicide  int
}

// NewCollector creates a collector flushing every windowSec of sim time.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 1
	}
	return &Collector{windowSec: windowSec}
}

// RecordSpawn records a bubble spawn.
func (c *Collector) RecordSpawn(kind components.Kind) {
	c.spawnsByKind[kind]++
}

// RecordKill records a bubble kill by reason name.
func (c *Collector) RecordKill(_ components.Kind, reason string) {
	switch reason {
	case "wall":
		c.killsWall++
	case "bubble":
		c.killsBubble++
	case "mouse":
		c.killsMouse++
	case "antibody":
		c.killsAntibody++
	case "underpopulation_suicide":
		c.killsSuicide++
	}
}

// ShouldFlush reports whether a full window has elapsed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStart >= c.windowSec
}

// Flush produces a WindowStats snapshot and resets counters for the next
// window. counts are the live populations at window end; radii the live
// radii for distribution stats.
func (c *Collector) Flush(tick int64, simTime float64, counts [components.NumKinds]int, radii []float64) WindowStats {
	mean, p50, p90 := radiusStats(radii)

	stats := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    simTime,

		NormalCount:    counts[components.KindNormal],
		SquareCount:    counts[components.KindSquare],
		GoldCount:      counts[components.KindGold],
		BlackholeCount: counts[components.KindBlackhole],
		VirusCount:     counts[components.KindVirus],
		AntiVirusCount: counts[components.KindAntiVirus],

		NormalSpawns:    c.spawnsByKind[components.KindNormal],
		SquareSpawns:    c.spawnsByKind[components.KindSquare],
		GoldSpawns:      c.spawnsByKind[components.KindGold],
		BlackholeSpawns: c.spawnsByKind[components.KindBlackhole],
		VirusSpawns:     c.spawnsByKind[components.KindVirus],
		AntiVirusSpawns: c.spawnsByKind[components.KindAntiVirus],

		KillsWall:     c.killsWall,
		KillsBubble:   c.killsBubble,
		KillsMouse:    c.killsMouse,
		KillsAntibody: c.killsAntibody,
		KillsSuicide:  c.killsSuicide,

		RadiusMean: mean,
		RadiusP50:  p50,
		RadiusP90:  p90,
	}

	c.windowStart = simTime
	for i := range c.spawnsByKind {
		c.spawnsByKind[i] = 0
	}
	c.killsWall = 0
	c.killsBubble = 0
	c.killsMouse = 0
	c.killsAntibody = 0
	c.killsSuicide = 0

	return stats
}
