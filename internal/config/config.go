// Package config loads and validates run configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajopt/internal/arm"
	"github.com/san-kum/trajopt/internal/nlp"
)

const (
	DefaultNodes     = 60
	DefaultHorizon   = 3.0
	DefaultVCap      = 24.0
	DefaultMaxEval   = 4000
	DefaultFtolRel   = 1e-8
	DefaultDefectTol = 1e-8
	DefaultScheme    = "midpoint"
	DefaultBaseDir   = ".trajopt"
)

// Config describes one solve session.
type Config struct {
	Nodes     int       `yaml:"nodes"`
	TIni      float64   `yaml:"t_ini"`
	TFinal    float64   `yaml:"t_final"`
	Scheme    string    `yaml:"scheme"`
	XIni      []float64 `yaml:"x_ini"`
	XFinal    []float64 `yaml:"x_final"`
	VCap      float64   `yaml:"v_cap"`
	Seed      int64     `yaml:"seed"`
	MaxEval   int       `yaml:"max_eval"`
	FtolRel   float64   `yaml:"ftol_rel"`
	DefectTol float64   `yaml:"defect_tol"`
	// Robot overrides the identified parameter set when present.
	Robot *arm.Params `yaml:"robot,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Nodes:     DefaultNodes,
		TIni:      0,
		TFinal:    DefaultHorizon,
		Scheme:    DefaultScheme,
		XIni:      []float64{0, -0.7, 1.2, 0, 0, 0},
		XFinal:    []float64{1.5, 0.4, 0.6, 0, 0, 0},
		VCap:      DefaultVCap,
		MaxEval:   DefaultMaxEval,
		FtolRel:   DefaultFtolRel,
		DefectTol: DefaultDefectTol,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the transcription cannot accept,
// before any solver work starts.
func (c *Config) Validate() error {
	if c.Nodes < 2 {
		return fmt.Errorf("%w: got %d", nlp.ErrNodeCount, c.Nodes)
	}
	if c.TFinal <= c.TIni {
		return fmt.Errorf("%w: [%g, %g]", nlp.ErrHorizon, c.TIni, c.TFinal)
	}
	if _, err := nlp.ParseScheme(c.Scheme); err != nil {
		return err
	}
	if c.VCap <= 0 {
		return fmt.Errorf("%w: got %g", nlp.ErrVoltageCap, c.VCap)
	}
	if len(c.XIni) != arm.StateDim || len(c.XFinal) != arm.StateDim {
		return fmt.Errorf("boundary states must have %d entries, got %d and %d",
			arm.StateDim, len(c.XIni), len(c.XFinal))
	}
	return nil
}

// Problem builds the forward transcription from the configuration.
func (c *Config) Problem() (*nlp.Problem, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	scheme, err := nlp.ParseScheme(c.Scheme)
	if err != nil {
		return nil, err
	}
	var xIni, xFinal [arm.StateDim]float64
	copy(xIni[:], c.XIni)
	copy(xFinal[:], c.XFinal)
	return nlp.NewProblem(c.Nodes, c.TIni, c.TFinal, scheme, xIni, xFinal, c.VCap, c.Robot)
}
