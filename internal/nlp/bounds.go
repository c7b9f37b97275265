package nlp

import (
	"math"
	"math/rand"

	"github.com/san-kum/trajopt/internal/arm"
)

// Initial-guess sampling ranges. States get a broad uniform spread; the
// solver tightens them against the defect constraints quickly.
const (
	guessAngleRange    = math.Pi
	guessVelocityRange = math.Pi
)

// ControlBound is the torque-equivalent limit (A[j]/R[j])·VCap the
// storage voltage imposes on joint j.
func (p *Problem) ControlBound(j int) float64 {
	return p.Robot.ControlGain(j) * p.VCap
}

// Bounds returns the per-variable lower and upper bound arrays. Angles
// and velocities are unbounded; each control is capped by the storage
// voltage.
func (p *Problem) Bounds() (lo, hi []float64) {
	n := p.layout.NumVars()
	lo = make([]float64, n)
	hi = make([]float64, n)
	for i := range lo {
		lo[i] = math.Inf(-1)
		hi[i] = math.Inf(1)
	}
	for j := 0; j < arm.NumJoints; j++ {
		b := p.ControlBound(j)
		for _, i := range p.layout.Control[j] {
			lo[i] = -b
			hi[i] = b
		}
	}
	return lo, hi
}

// ConstraintBounds returns the constraint bound arrays: every row is an
// equality, lower = upper = 0.
func (p *Problem) ConstraintBounds() (lo, hi []float64) {
	m := p.layout.NumConstraints()
	return make([]float64, m), make([]float64, m)
}

// InitialGuess draws a randomized starting vector from rng: controls
// uniform within their bounds, states uniform in a broad range.
func (p *Problem) InitialGuess(rng *rand.Rand) []float64 {
	x := make([]float64, p.layout.NumVars())
	uniform := func(r float64) float64 {
		return r * (2*rng.Float64() - 1)
	}
	for node := 0; node < p.N; node++ {
		lo, _ := p.layout.Block(node)
		for j := 0; j < arm.NumJoints; j++ {
			x[lo+j] = uniform(guessAngleRange)
			x[lo+arm.NumJoints+j] = uniform(guessVelocityRange)
			x[lo+2*arm.NumJoints+j] = uniform(p.ControlBound(j))
		}
	}
	return x
}
