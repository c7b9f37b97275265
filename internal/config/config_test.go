package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/trajopt/internal/nlp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if _, err := cfg.Problem(); err != nil {
		t.Fatalf("default config produced no problem: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Config)
		sentinel error
	}{
		{"one node", func(c *Config) { c.Nodes = 1 }, nlp.ErrNodeCount},
		{"empty horizon", func(c *Config) { c.TFinal = c.TIni }, nlp.ErrHorizon},
		{"bad scheme", func(c *Config) { c.Scheme = "rk4" }, nlp.ErrScheme},
		{"zero vcap", func(c *Config) { c.VCap = 0 }, nlp.ErrVoltageCap},
		{"short state", func(c *Config) { c.XIni = []float64{1, 2} }, nil},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: validation passed", tc.name)
			continue
		}
		if tc.sentinel != nil && !errors.Is(err, tc.sentinel) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.sentinel)
		}
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Nodes = 33
	cfg.Scheme = "backward_euler"
	cfg.XFinal = []float64{0.1, 0.2, 0.3, 0, 0, 0}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Nodes != 33 || got.Scheme != "backward_euler" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.XFinal) != 6 || got.XFinal[2] != 0.3 {
		t.Errorf("round trip lost boundary state: %v", got.XFinal)
	}
}

func TestPresetsAllValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q vanished", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("warp-speed") != nil {
		t.Error("unknown preset did not return nil")
	}
}
