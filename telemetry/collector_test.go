package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/bubbles/components"
)

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(5)

	if c.ShouldFlush(4.9) {
		t.Error("should not flush before the window elapses")
	}
	if !c.ShouldFlush(5.0) {
		t.Error("should flush once the window elapses")
	}

	var counts [components.NumKinds]int
	c.Flush(300, 5.0, counts, nil)

	if c.ShouldFlush(9.9) {
		t.Error("flush should start a new window")
	}
	if !c.ShouldFlush(10.0) {
		t.Error("second window should flush at 10s")
	}
}

func TestCollectorCountsAndResets(t *testing.T) {
	c := NewCollector(5)

	c.RecordSpawn(components.KindNormal)
	c.RecordSpawn(components.KindNormal)
	c.RecordSpawn(components.KindVirus)
	c.RecordKill(components.KindNormal, "wall")
	c.RecordKill(components.KindNormal, "bubble")
	c.RecordKill(components.KindGold, "bubble")
	c.RecordKill(components.KindVirus, "antibody")
	c.RecordKill(components.KindVirus, "underpopulation_suicide")

	var counts [components.NumKinds]int
	counts[components.KindNormal] = 10

	stats := c.Flush(300, 5.0, counts, []float64{10, 20, 30})

	if stats.NormalSpawns != 2 || stats.VirusSpawns != 1 {
		t.Errorf("spawns = %d normal / %d virus, want 2 / 1", stats.NormalSpawns, stats.VirusSpawns)
	}
	if stats.KillsWall != 1 || stats.KillsBubble != 2 || stats.KillsAntibody != 1 || stats.KillsSuicide != 1 {
		t.Errorf("kill counters wrong: %+v", stats)
	}
	if stats.NormalCount != 10 {
		t.Errorf("normal count = %d, want 10", stats.NormalCount)
	}
	if math.Abs(stats.RadiusMean-20) > 1e-9 {
		t.Errorf("radius mean = %v, want 20", stats.RadiusMean)
	}

	// A second flush with no events must be all zeros.
	stats = c.Flush(600, 10.0, [components.NumKinds]int{}, nil)
	if stats.NormalSpawns != 0 || stats.KillsBubble != 0 {
		t.Error("counters should reset after flush")
	}
	if stats.RadiusMean != 0 {
		t.Errorf("radius mean with no samples = %v, want 0", stats.RadiusMean)
	}
}

func TestRadiusStats(t *testing.T) {
	mean, p50, p90 := radiusStats([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p50 < 5 || p50 > 6 {
		t.Errorf("p50 = %v, want within [5, 6]", p50)
	}
	if p90 < 9 || p90 > 10 {
		t.Errorf("p90 = %v, want within [9, 10]", p90)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 300, SimTimeSec: 5, NormalCount: 12}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 600, SimTimeSec: 10, NormalCount: 14}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header plus 2 records, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") {
		t.Errorf("missing header, first line: %q", lines[0])
	}
	if strings.Contains(lines[2], "window_end") {
		t.Error("header repeated on subsequent records")
	}
}

func TestNilOutputManagerIsSafe(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
