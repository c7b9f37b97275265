package metrics

import (
	"math"

	"github.com/san-kum/trajopt/internal/arm"
)

// Effort returns the RMS control magnitude per joint, a rough measure of
// how hard each drive works independent of sign.
func Effort(u [][]float64) [arm.NumJoints]float64 {
	var rms [arm.NumJoints]float64
	if len(u) == 0 {
		return rms
	}
	for j := 0; j < arm.NumJoints; j++ {
		sum := 0.0
		for i := range u {
			sum += u[i][j] * u[i][j]
		}
		rms[j] = math.Sqrt(sum / float64(len(u)))
	}
	return rms
}

// PeakPower returns the largest instantaneous power drawn by any joint,
// the figure that sizes the storage element's discharge path.
func PeakPower(p *arm.Params, vel, u [][]float64) float64 {
	peak := 0.0
	for i := range u {
		for j := 0; j < arm.NumJoints; j++ {
			if pw := Power(p, j, vel[i][j], u[i][j]); pw > peak {
				peak = pw
			}
		}
	}
	return peak
}
