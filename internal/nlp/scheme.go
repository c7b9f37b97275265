package nlp

import "github.com/san-kum/trajopt/internal/arm"

// defectFunc evaluates the six-row collocation defect for one segment
// from the two node blocks bracketing it.
type defectFunc func(robot *arm.Params, h float64, z1, z2 []float64) []float64

// defectJacFunc returns the defect derivatives with respect to the
// earlier and later node blocks.
type defectJacFunc func(robot *arm.Params, h float64, z1, z2 []float64) (j1, j2 [arm.StateDim][arm.BlockDim]float64)

// defect resolves the scheme to its defect evaluator once per run; no
// per-segment branching.
func (s Scheme) defect() defectFunc {
	if s == BackwardEuler {
		return backwardEulerDefect
	}
	return midpointDefect
}

func (s Scheme) defectJacobian() defectJacFunc {
	if s == BackwardEuler {
		return backwardEulerJacobian
	}
	return midpointJacobian
}

// stateRate is ż = (x2 − x1)/h over the segment.
func stateRate(h float64, z1, z2 []float64) []float64 {
	zdot := make([]float64, arm.StateDim)
	for i := range zdot {
		zdot[i] = (z2[i] - z1[i]) / h
	}
	return zdot
}

func backwardEulerDefect(robot *arm.Params, h float64, z1, z2 []float64) []float64 {
	return arm.Residual(robot, z2, stateRate(h, z1, z2))
}

// backwardEulerJacobian: the residual sees only the later block, so
// j1 = −∂f/∂ż/h and j2 = ∂f/∂z + ∂f/∂ż/h.
func backwardEulerJacobian(robot *arm.Params, h float64, z1, z2 []float64) (j1, j2 [arm.StateDim][arm.BlockDim]float64) {
	fz, fdot := arm.Jacobian(robot, z2, stateRate(h, z1, z2))
	for r := 0; r < arm.StateDim; r++ {
		for c := 0; c < arm.BlockDim; c++ {
			j1[r][c] = -fdot[r][c] / h
			j2[r][c] = fz[r][c] + fdot[r][c]/h
		}
	}
	return j1, j2
}

func midpointDefect(robot *arm.Params, h float64, z1, z2 []float64) []float64 {
	return arm.Residual(robot, blockMean(z1, z2), stateRate(h, z1, z2))
}

// midpointJacobian: both blocks enter the evaluation point with weight
// one half, so j1 = ∂f/∂z/2 − ∂f/∂ż/h and j2 = ∂f/∂z/2 + ∂f/∂ż/h.
func midpointJacobian(robot *arm.Params, h float64, z1, z2 []float64) (j1, j2 [arm.StateDim][arm.BlockDim]float64) {
	fz, fdot := arm.Jacobian(robot, blockMean(z1, z2), stateRate(h, z1, z2))
	for r := 0; r < arm.StateDim; r++ {
		for c := 0; c < arm.BlockDim; c++ {
			j1[r][c] = 0.5*fz[r][c] - fdot[r][c]/h
			j2[r][c] = 0.5*fz[r][c] + fdot[r][c]/h
		}
	}
	return j1, j2
}

func blockMean(z1, z2 []float64) []float64 {
	mid := make([]float64, arm.BlockDim)
	for i := range mid {
		mid[i] = 0.5 * (z1[i] + z2[i])
	}
	return mid
}
