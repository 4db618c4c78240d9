package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("invalid default screen size %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Population.Target <= 0 {
		t.Errorf("default population target should be positive, got %d", cfg.Population.Target)
	}
	if cfg.Bubble.DyingDuration <= 0 {
		t.Errorf("default dying duration should be positive, got %v", cfg.Bubble.DyingDuration)
	}
	if cfg.Bubble.MinRadius > cfg.Bubble.MaxRadius {
		t.Errorf("default radius range inverted: [%v, %v]", cfg.Bubble.MinRadius, cfg.Bubble.MaxRadius)
	}

	sum := cfg.SpawnProbability.Square + cfg.SpawnProbability.Gold +
		cfg.SpawnProbability.Blackhole + cfg.SpawnProbability.Virus +
		cfg.SpawnProbability.AntiVirus
	if sum >= 1 {
		t.Errorf("default spawn probabilities leave no room for normal bubbles: %v", sum)
	}
}

func TestLoadMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("population:\n  target: 7\nscreen:\n  width: 640\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}

	if cfg.Population.Target != 7 {
		t.Errorf("target = %d, want 7", cfg.Population.Target)
	}
	if cfg.Screen.Width != 640 {
		t.Errorf("width = %d, want 640", cfg.Screen.Width)
	}

	// Untouched fields keep their defaults.
	defaults, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Screen.Height != defaults.Screen.Height {
		t.Errorf("height = %d, want default %d", cfg.Screen.Height, defaults.Screen.Height)
	}
	if cfg.Bubble.DyingDuration != defaults.Bubble.DyingDuration {
		t.Errorf("dying duration = %v, want default %v", cfg.Bubble.DyingDuration, defaults.Bubble.DyingDuration)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"spawn probabilities over one",
			"spawn_probability:\n  square: 0.5\n  gold: 0.4\n  virus: 0.3\n",
		},
		{
			"non-positive dying duration",
			"bubble:\n  dying_duration: 0\n",
		},
		{
			"inverted radius range",
			"bubble:\n  min_radius: 40\n  max_radius: 10\n",
		},
		{
			"negative population target",
			"population:\n  target: -5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Target = 99

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if back.Population.Target != 99 {
		t.Errorf("target after round trip = %d, want 99", back.Population.Target)
	}
}
