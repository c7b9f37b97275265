package nlp

import "github.com/san-kum/trajopt/internal/arm"

// Objective is the electrical energy exchanged with the shared storage
// element over the horizon:
//
//	h · Σ_nodes Σ_j [ −q̇ⱼ·uⱼ + (Rⱼ/Aⱼ²)·uⱼ² ]
//
// The sign of the first term lets regenerated energy reduce the total.
func (p *Problem) Objective(x []float64) float64 {
	h := p.StepSize()
	sum := 0.0
	for node := 0; node < p.N; node++ {
		lo, _ := p.layout.Block(node)
		for j := 0; j < arm.NumJoints; j++ {
			v := x[lo+arm.NumJoints+j]
			u := x[lo+2*arm.NumJoints+j]
			sum += -v*u + u*u/p.Robot.BackEMF(j)
		}
	}
	return h * sum
}

// Gradient writes the exact closed-form objective gradient into grad,
// which must have the decision vector's length. Only velocity and
// control entries are nonzero.
func (p *Problem) Gradient(x, grad []float64) {
	for i := range grad {
		grad[i] = 0
	}
	h := p.StepSize()
	for node := 0; node < p.N; node++ {
		lo, _ := p.layout.Block(node)
		for j := 0; j < arm.NumJoints; j++ {
			vi := lo + arm.NumJoints + j
			ui := lo + 2*arm.NumJoints + j
			grad[vi] = -h * x[ui]
			grad[ui] = h * (-x[vi] + 2*x[ui]/p.Robot.BackEMF(j))
		}
	}
}
