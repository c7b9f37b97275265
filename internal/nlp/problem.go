package nlp

import (
	"fmt"

	"github.com/san-kum/trajopt/internal/arm"
)

// Scheme selects the collocation rule applied uniformly to all segments.
type Scheme int

const (
	// BackwardEuler evaluates dynamics at the later node of a segment.
	// First order, asymmetric.
	BackwardEuler Scheme = iota
	// Midpoint evaluates dynamics at the mean of both nodes. Second
	// order, symmetric.
	Midpoint
)

func (s Scheme) String() string {
	switch s {
	case BackwardEuler:
		return "backward_euler"
	case Midpoint:
		return "midpoint"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// ParseScheme resolves a configuration name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "backward_euler", "euler":
		return BackwardEuler, nil
	case "midpoint":
		return Midpoint, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrScheme, name)
	}
}

// Problem is one immutable transcription of the optimal-control problem.
// Two runs of a session differ only by swapping XIni and XFinal.
type Problem struct {
	N      int
	TIni   float64
	TFinal float64
	Scheme Scheme
	XIni   [arm.StateDim]float64
	XFinal [arm.StateDim]float64
	// VCap is the regenerative storage voltage bounding each control to
	// ±(A[j]/R[j])·VCap.
	VCap  float64
	Robot *arm.Params

	layout Layout
}

// NewProblem validates the run description and fails fast on a bad node
// count, horizon, scheme or voltage cap.
func NewProblem(n int, tIni, tFinal float64, scheme Scheme, xIni, xFinal [arm.StateDim]float64, vCap float64, robot *arm.Params) (*Problem, error) {
	switch {
	case n < 2:
		return nil, fmt.Errorf("%w: got %d", ErrNodeCount, n)
	case tFinal <= tIni:
		return nil, fmt.Errorf("%w: [%g, %g]", ErrHorizon, tIni, tFinal)
	case scheme != BackwardEuler && scheme != Midpoint:
		return nil, fmt.Errorf("%w: %d", ErrScheme, int(scheme))
	case vCap <= 0:
		return nil, fmt.Errorf("%w: got %g", ErrVoltageCap, vCap)
	}
	if robot == nil {
		robot = arm.DefaultParams()
	}
	return &Problem{
		N:      n,
		TIni:   tIni,
		TFinal: tFinal,
		Scheme: scheme,
		XIni:   xIni,
		XFinal: xFinal,
		VCap:   vCap,
		Robot:  robot,
		layout: NewLayout(n),
	}, nil
}

// Layout returns the index layout of the decision vector.
func (p *Problem) Layout() Layout {
	return p.layout
}

// StepSize is the uniform node spacing h.
func (p *Problem) StepSize() float64 {
	return (p.TFinal - p.TIni) / float64(p.N-1)
}

// Times returns the node time grid.
func (p *Problem) Times() []float64 {
	h := p.StepSize()
	ts := make([]float64, p.N)
	for i := range ts {
		ts[i] = p.TIni + float64(i)*h
	}
	return ts
}

// Swapped returns the reverse problem with the boundary states exchanged,
// used for the B→A leg of a session.
func (p *Problem) Swapped() *Problem {
	q := *p
	q.XIni, q.XFinal = p.XFinal, p.XIni
	return &q
}
