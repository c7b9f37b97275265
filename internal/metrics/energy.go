// Package metrics computes energy and effort figures for solved
// trajectories of the regenerative manipulator.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/trajopt/internal/arm"
)

// Power returns the instantaneous electrical power joint j draws from
// the storage bus; negative values are regeneration.
func Power(p *arm.Params, j int, vel, u float64) float64 {
	return -vel*u + u*u/p.BackEMF(j)
}

// Energy summarizes the electrical energy balance of one trajectory.
type Energy struct {
	// PerJoint is the net energy drawn by each joint over the horizon.
	PerJoint [arm.NumJoints]float64
	// Total is the net energy drawn from storage.
	Total float64
	// Regenerated is the energy returned to storage, counted positive.
	Regenerated float64
}

// Integrate computes the energy balance by trapezoidal integration of
// the per-joint power over the node time grid. vel and u hold one row
// per node with one column per joint.
func Integrate(p *arm.Params, times []float64, vel, u [][]float64) Energy {
	var e Energy
	power := make([]float64, len(times))
	regen := make([]float64, len(times))
	for j := 0; j < arm.NumJoints; j++ {
		for i := range times {
			power[i] = Power(p, j, vel[i][j], u[i][j])
			regen[i] = math.Min(power[i], 0)
		}
		e.PerJoint[j] = integrate.Trapezoidal(times, power)
		e.Regenerated -= integrate.Trapezoidal(times, regen)
		e.Total += e.PerJoint[j]
	}
	return e
}
