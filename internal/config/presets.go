package config

import "sort"

// Presets are ready-made motions for the lab arm.
var Presets = map[string]*Config{
	"rest-to-rest": {
		Nodes: 60, TFinal: 3.0, Scheme: "midpoint", VCap: 24,
		XIni:   []float64{0, -0.7, 1.2, 0, 0, 0},
		XFinal: []float64{1.5, 0.4, 0.6, 0, 0, 0},
	},
	"lift": {
		Nodes: 80, TFinal: 2.0, Scheme: "midpoint", VCap: 24,
		XIni:   []float64{0, -1.2, 2.0, 0, 0, 0},
		XFinal: []float64{0, 0.9, 0.3, 0, 0, 0},
	},
	"sweep": {
		Nodes: 100, TFinal: 4.0, Scheme: "backward_euler", VCap: 24,
		XIni:   []float64{-2.4, 0.2, 1.0, 0, 0, 0},
		XFinal: []float64{2.4, 0.2, 1.0, 0, 0, 0},
	},
	"flyby": {
		// Nonzero boundary velocities: the arm passes through both
		// endpoints at speed.
		Nodes: 90, TFinal: 2.5, Scheme: "midpoint", VCap: 24,
		XIni:   []float64{-1.0, -0.5, 1.4, 0.8, 0, 0},
		XFinal: []float64{1.0, 0.5, 0.8, 0.8, 0, 0},
	},
}

// GetPreset returns a copy of a named preset filled out with defaults,
// or nil when the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Nodes = p.Nodes
	cfg.TIni = p.TIni
	cfg.TFinal = p.TFinal
	cfg.Scheme = p.Scheme
	cfg.VCap = p.VCap
	cfg.XIni = append([]float64(nil), p.XIni...)
	cfg.XFinal = append([]float64(nil), p.XFinal...)
	return cfg
}

// ListPresets returns the known preset names in stable order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
