package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one sim-time window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population counts at window end
	NormalCount    int `csv:"normal"`
	SquareCount    int `csv:"square"`
	GoldCount      int `csv:"gold"`
	BlackholeCount int `csv:"blackhole"`
	VirusCount     int `csv:"virus"`
	AntiVirusCount int `csv:"antivirus"`

	// Spawns during window
	NormalSpawns    int `csv:"normal_spawns"`
	SquareSpawns    int `csv:"square_spawns"`
	GoldSpawns      int `csv:"gold_spawns"`
	BlackholeSpawns int `csv:"blackhole_spawns"`
	VirusSpawns     int `csv:"virus_spawns"`
	AntiVirusSpawns int `csv:"antivirus_spawns"`

	// Kills by reason during window
	KillsWall     int `csv:"kills_wall"`
	KillsBubble   int `csv:"kills_bubble"`
	KillsMouse    int `csv:"kills_mouse"`
	KillsAntibody int `csv:"kills_antibody"`
	KillsSuicide  int `csv:"kills_suicide"`

	// Radius distribution at window end
	RadiusMean float64 `csv:"radius_mean"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
}

// radiusStats computes mean and percentiles of the live radii.
func radiusStats(radii []float64) (mean, p50, p90 float64) {
	if len(radii) == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, len(radii))
	copy(sorted, radii)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("normal", s.NormalCount),
		slog.Int("square", s.SquareCount),
		slog.Int("gold", s.GoldCount),
		slog.Int("blackhole", s.BlackholeCount),
		slog.Int("virus", s.VirusCount),
		slog.Int("antivirus", s.AntiVirusCount),
		slog.Int("kills_wall", s.KillsWall),
		slog.Int("kills_bubble", s.KillsBubble),
		slog.Int("kills_mouse", s.KillsMouse),
		slog.Int("kills_antibody", s.KillsAntibody),
		slog.Int("kills_suicide", s.KillsSuicide),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_p90", s.RadiusP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"normal", s.NormalCount,
		"square", s.SquareCount,
		"gold", s.GoldCount,
		"blackhole", s.BlackholeCount,
		"virus", s.VirusCount,
		"antivirus", s.AntiVirusCount,
		"normal_spawns", s.NormalSpawns,
		"square_spawns", s.SquareSpawns,
		"gold_spawns", s.GoldSpawns,
		"blackhole_spawns", s.BlackholeSpawns,
		"virus_spawns", s.VirusSpawns,
		"antivirus_spawns", s.AntiVirusSpawns,
		"kills_wall", s.KillsWall,
		"kills_bubble", s.KillsBubble,
		"kills_mouse", s.KillsMouse,
		"kills_antibody", s.KillsAntibody,
		"kills_suicide", s.KillsSuicide,
		"radius_mean", s.RadiusMean,
		"radius_p50", s.RadiusP50,
		"radius_p90", s.RadiusP90,
	)
}
