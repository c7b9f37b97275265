package arm

import "math"

// Friction evaluates the two-term tanh Stribeck model for joint j:
//
//	λ1·(tanh(λ2·v) − tanh(λ3·v)) + λ4·tanh(λ5·v)
//
// The difference of the two steep tanh terms reproduces the Stribeck
// dip near zero velocity; the third term is smoothed Coulomb friction.
func (p *Params) Friction(j int, v float64) float64 {
	l := &p.Lambda[j]
	return l[0]*(math.Tanh(l[1]*v)-math.Tanh(l[2]*v)) + l[3]*math.Tanh(l[4]*v)
}

// FrictionSlope is d/dv of Friction, using d/dx tanh(kx) = k·(1 − tanh²(kx)).
func (p *Params) FrictionSlope(j int, v float64) float64 {
	l := &p.Lambda[j]
	return l[0]*(l[1]*sech2(l[1]*v)-l[2]*sech2(l[2]*v)) + l[3]*l[4]*sech2(l[4]*v)
}

func sech2(x float64) float64 {
	t := math.Tanh(x)
	return 1 - t*t
}
