// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Bubble     BubbleConfig     `yaml:"bubble"`
	Population PopulationConfig `yaml:"population"`
	// SpawnProbability holds per-kind spawn probabilities; the normal kind
	// absorbs the residual probability mass.
	SpawnProbability SpawnProbabilityConfig `yaml:"spawn_probability"`
	Colors           ColorsConfig           `yaml:"colors"`
	Gold             GoldConfig             `yaml:"gold"`
	Blackhole        BlackholeConfig        `yaml:"blackhole"`
	Virus            VirusConfig            `yaml:"virus"`
	AntiVirus        AntiVirusConfig        `yaml:"antivirus"`
	ForceField       ForceFieldConfig       `yaml:"forcefield"`
	Telemetry        TelemetryConfig        `yaml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds frame-stepping parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`           // fixed step for headless runs and tests
	MaxFrameDT   float64 `yaml:"max_frame_dt"` // clamp for real frame deltas
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// BubbleConfig holds the shared bubble tunables.
type BubbleConfig struct {
	DyingDuration    float64 `yaml:"dying_duration"`
	DyingGrowthRate  float64 `yaml:"dying_growth_rate"` // multiplicative radius growth per second while dying
	MinRadius        float64 `yaml:"min_radius"`
	MaxRadius        float64 `yaml:"max_radius"`
	MinLife          float64 `yaml:"min_life"`
	MaxLife          float64 `yaml:"max_life"`
	FallSpeedMin     float64 `yaml:"fall_speed_min"` // downward bias of freshly spawned bubbles
	FallSpeedMax     float64 `yaml:"fall_speed_max"`
	DriftSpeed       float64 `yaml:"drift_speed"` // horizontal jitter on spawn
	VelocityHalfLife float64 `yaml:"velocity_half_life"`
	RadiusHalfLife   float64 `yaml:"radius_half_life"`
	RotationHalfLife float64 `yaml:"rotation_half_life"`
	SpinRate         float64 `yaml:"spin_rate"` // idle target-rotation drift, radians/sec
	BaseForce        float64 `yaml:"base_force"`
	SpawnInset       float64 `yaml:"spawn_inset"` // extra wall margin, in radii
}

// PopulationConfig holds the population controller parameters.
type PopulationConfig struct {
	Target      int `yaml:"target"`
	RetryFactor int `yaml:"retry_factor"` // retry budget = factor * deficit
}

// SpawnProbabilityConfig holds per-kind spawn probabilities. Values are
// absolute probabilities; normal takes whatever is left.
type SpawnProbabilityConfig struct {
	Square    float64 `yaml:"square"`
	Gold      float64 `yaml:"gold"`
	Blackhole float64 `yaml:"blackhole"`
	Virus     float64 `yaml:"virus"`
	AntiVirus float64 `yaml:"antivirus"`
}

// RGB is a color triple as stored in YAML.
type RGB [3]uint8

// ColorPair is the calm/alarmed color pair blended by a bubble's proximity.
type ColorPair struct {
	Default RGB `yaml:"default"`
	Close   RGB `yaml:"close"`
}

// ColorsConfig holds the per-kind color pairs.
type ColorsConfig struct {
	Normal    ColorPair `yaml:"normal"`
	Square    ColorPair `yaml:"square"`
	Gold      ColorPair `yaml:"gold"`
	Blackhole ColorPair `yaml:"blackhole"`
	Virus     ColorPair `yaml:"virus"`
	AntiVirus ColorPair `yaml:"antivirus"`
}

// GoldConfig holds gold pairing parameters.
type GoldConfig struct {
	PairRangeFactor float64 `yaml:"pair_range_factor"` // pairing range = factor * radius
	SpringStrength  float64 `yaml:"spring_strength"`
	SpringMaxForce  float64 `yaml:"spring_max_force"`
}

// BlackholeConfig holds blackhole parameters.
type BlackholeConfig struct {
	PullConstant    float64 `yaml:"pull_constant"`    // scales the d^-1.5 attraction
	RadiusIncrement float64 `yaml:"radius_increment"` // target radius growth per absorbed bubble
}

// VirusConfig holds virus hunting parameters.
type VirusConfig struct {
	SpeedFloor     float64 `yaml:"speed_floor"`
	SpeedFactor    float64 `yaml:"speed_factor"` // chase speed = factor * target speed, floored
	SuicideTimeout float64 `yaml:"suicide_timeout"`
}

// AntiVirusConfig holds antivirus and antibody parameters.
type AntiVirusConfig struct {
	Cooldown              float64 `yaml:"cooldown"`
	ScanRangeFactor       float64 `yaml:"scan_range_factor"` // scan range = factor * radius
	AntibodyCount         int     `yaml:"antibody_count"`
	AntibodyRadius        float64 `yaml:"antibody_radius"`
	AntibodySpeed         float64 `yaml:"antibody_speed"`
	AntibodyTurnHalfLife  float64 `yaml:"antibody_turn_half_life"`
	AntibodySpeedHalfLife float64 `yaml:"antibody_speed_half_life"`
	AntibodyOrbitRadius   float64 `yaml:"antibody_orbit_radius"` // in parent radii
	AntibodyOrbitRate     float64 `yaml:"antibody_orbit_rate"`   // radians/sec
	ContactDistance       float64 `yaml:"contact_distance"`
}

// ForceFieldConfig holds force-field parameters.
type ForceFieldConfig struct {
	DefaultForce       float64 `yaml:"default_force"`
	MaxForce           float64 `yaml:"max_force"`
	GrowthRate         float64 `yaml:"growth_rate"` // force *= 1 + dt*rate while held
	Scale              float64 `yaml:"scale"`       // discharge radius = force * scale
	DurationScale      float64 `yaml:"duration_scale"`
	ImpulseFactor      float64 `yaml:"impulse_factor"`
	ParticlesPerRadius float64 `yaml:"particles_per_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present
		// in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	sum := c.SpawnProbability.Square + c.SpawnProbability.Gold +
		c.SpawnProbability.Blackhole + c.SpawnProbability.Virus +
		c.SpawnProbability.AntiVirus
	if sum > 1 {
		return fmt.Errorf("spawn probabilities sum to %.3f, must leave residual for normal bubbles", sum)
	}
	if c.Bubble.DyingDuration <= 0 {
		return fmt.Errorf("bubble.dying_duration must be positive, got %v", c.Bubble.DyingDuration)
	}
	if c.Bubble.MinRadius <= 0 || c.Bubble.MaxRadius < c.Bubble.MinRadius {
		return fmt.Errorf("invalid bubble radius range [%v, %v]", c.Bubble.MinRadius, c.Bubble.MaxRadius)
	}
	if c.Population.Target < 0 {
		return fmt.Errorf("population.target must be non-negative, got %d", c.Population.Target)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
