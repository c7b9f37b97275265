package store

import (
	"github.com/san-kum/trajopt/internal/arm"
	"github.com/san-kum/trajopt/internal/metrics"
	"github.com/san-kum/trajopt/internal/nlp"
)

// Trajectory is one solved leg unpacked per node: one row per node, one
// column per joint.
type Trajectory struct {
	Times []float64
	Q     [][]float64 // joint angles
	V     [][]float64 // joint velocities
	A     [][]float64 // accelerations, finite-differenced from V
	U     [][]float64 // torque-equivalent controls
	Power [][]float64 // electrical power per joint
}

// FromVector unpacks a decision vector the solver returned into named
// per-node series. Accelerations are reconstructed by forward-differencing
// the velocity trajectory; the last row repeats its predecessor.
func FromVector(prob *nlp.Problem, x []float64) *Trajectory {
	lay := prob.Layout()
	h := prob.StepSize()
	tr := &Trajectory{
		Times: prob.Times(),
		Q:     grid(prob.N),
		V:     grid(prob.N),
		A:     grid(prob.N),
		U:     grid(prob.N),
		Power: grid(prob.N),
	}
	for node := 0; node < prob.N; node++ {
		for j := 0; j < arm.NumJoints; j++ {
			tr.Q[node][j] = x[lay.Angle[j][node]]
			tr.V[node][j] = x[lay.Velocity[j][node]]
			tr.U[node][j] = x[lay.Control[j][node]]
			tr.Power[node][j] = metrics.Power(prob.Robot, j, tr.V[node][j], tr.U[node][j])
		}
	}
	for node := 0; node < prob.N; node++ {
		for j := 0; j < arm.NumJoints; j++ {
			if node < prob.N-1 {
				tr.A[node][j] = (tr.V[node+1][j] - tr.V[node][j]) / h
			} else {
				tr.A[node][j] = tr.A[node-1][j]
			}
		}
	}
	return tr
}

// Column returns one joint's series from a per-node table.
func Column(table [][]float64, j int) []float64 {
	col := make([]float64, len(table))
	for i := range table {
		col[i] = table[i][j]
	}
	return col
}

func grid(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, arm.NumJoints)
	}
	return rows
}
